// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL or SQLite connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - TablePrefix: Prefix for the terms and term_order tables (default: tx_)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - Taxonomies: Taxonomies whose listings use the stored order (default: all)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-prefix       Table prefix
	-taxonomies   Comma-separated taxonomy list
	-admin-salt   Admin key salt
	-c            YAML config file

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	TABLE_PREFIX       → -prefix
	ORDERED_TAXONOMIES → -taxonomies
	ADMIN_KEY_SALT     → -admin-salt
	CONFIG_FILE        → -c

A .env file in the working directory (godotenv) is the last fallback
before defaults: flags, environment and the YAML file all win over it.

Database type accepts postgres, postgresql, sqlite or sqlite3 and is
normalized to postgres or sqlite.

# Config File

The optional YAML file fills anything still unset after flags and env:

	port: 3318
	database_url: postgres://localhost/terms
	database_type: postgres
	table_prefix: tx_
	admin_key_salt: change-me
	taxonomies: [category]

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
*/
package cliparse
