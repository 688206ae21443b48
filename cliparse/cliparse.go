package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/term-order/db"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	TablePrefix  string
	AdminKeySalt string
	Taxonomies   []string // taxonomies sorted by stored order; empty means all
	ConfigFile   string
}

// FileConfig is the optional YAML config file. Flags and env win over it.
type FileConfig struct {
	Port         int      `yaml:"port"`
	DatabaseURL  string   `yaml:"database_url"`
	DatabaseType string   `yaml:"database_type"`
	TablePrefix  string   `yaml:"table_prefix"`
	AdminKeySalt string   `yaml:"admin_key_salt"`
	Taxonomies   []string `yaml:"taxonomies"`
}

const defaultTablePrefix = "tx_"

// ParseFlags validates flags and sets port number.
// Precedence: flag, env, YAML file, .env file, default.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var taxonomies string

	fs := flag.NewFlagSet("term-order", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.TablePrefix, "prefix", "", "Table prefix (default tx_)")
	fs.StringVar(&taxonomies, "taxonomies", "", "Comma-separated taxonomies to sort by stored order (default all)")
	fs.StringVar(&cfg.ConfigFile, "c", "", "YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env ranks below the YAML file, so it is read into a map rather than the environment
	dotenv, err := godotenv.Read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.ConfigFile = firstNonEmpty(cfg.ConfigFile, os.Getenv("CONFIG_FILE"), dotenv["CONFIG_FILE"])
	var file FileConfig
	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		file = fc
	}

	// Fall back to environment variables, then the config file, then .env
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != 0 {
			cfg.Port = file.Port
		} else if portStr := dotenv["PORT"]; portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT in .env")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), file.DatabaseURL, dotenv["DATABASE_URL"])
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	dialect, err := db.ParseDialect(firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), file.DatabaseType, dotenv["DATABASE_TYPE"], "sqlite"))
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseType = string(dialect)

	cfg.TablePrefix = firstNonEmpty(cfg.TablePrefix, os.Getenv("TABLE_PREFIX"), file.TablePrefix, dotenv["TABLE_PREFIX"], defaultTablePrefix)

	taxonomies = firstNonEmpty(taxonomies, os.Getenv("ORDERED_TAXONOMIES"))
	switch {
	case taxonomies != "":
		cfg.Taxonomies = splitList(taxonomies)
	case len(file.Taxonomies) > 0:
		cfg.Taxonomies = file.Taxonomies
	default:
		cfg.Taxonomies = splitList(dotenv["ORDERED_TAXONOMIES"])
	}

	// Secrets - MUST be provided
	cfg.AdminKeySalt = firstNonEmpty(cfg.AdminKeySalt, os.Getenv("ADMIN_KEY_SALT"), file.AdminKeySalt, dotenv["ADMIN_KEY_SALT"])
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return fc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
