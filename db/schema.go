// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MetaKey is the meta_key stored on every term_order row.
const MetaKey = "term_order"

var ErrInvalidPrefix = errors.New("invalid table prefix")

var prefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Tables holds the fully qualified table names for one site.
type Tables struct {
	Prefix    string
	Terms     string
	TermOrder string
}

// TablesFor validates prefix and returns the table names built from it.
// An empty prefix is allowed.
func TablesFor(prefix string) (Tables, error) {
	if prefix != "" && !prefixPattern.MatchString(prefix) {
		return Tables{}, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	return Tables{
		Prefix:    prefix,
		Terms:     prefix + "terms",
		TermOrder: prefix + "term_order",
	}, nil
}

// SitePrefix returns the table prefix used by a provisioned site,
// e.g. "tx_" and site 3 give "tx_3_".
func SitePrefix(base string, siteID int64) string {
	return fmt.Sprintf("%s%d_", base, siteID)
}

// CreateSchema creates the terms and term_order tables for prefix.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, dialect Dialect, prefix string) error {
	tables, err := TablesFor(prefix)
	if err != nil {
		return err
	}

	tmpl := postgresSchema
	if dialect == SQLite {
		tmpl = sqliteSchema
	}

	r := strings.NewReplacer("{terms}", tables.Terms, "{term_order}", tables.TermOrder)
	for _, stmt := range strings.Split(r.Replace(tmpl), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

const postgresSchema = `
-- Terms
CREATE TABLE IF NOT EXISTS {terms} (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    taxonomy TEXT NOT NULL,
    UNIQUE (taxonomy, slug)
);

CREATE INDEX IF NOT EXISTS idx_{terms}_taxonomy ON {terms}(taxonomy);

-- Term order
CREATE TABLE IF NOT EXISTS {term_order} (
    meta_id BIGSERIAL PRIMARY KEY,
    term_id BIGINT NOT NULL DEFAULT 0,
    meta_key VARCHAR(255) NOT NULL DEFAULT 'term_order',
    meta_value INTEGER NOT NULL,
    UNIQUE (term_id)
);

CREATE INDEX IF NOT EXISTS idx_{term_order}_meta_key ON {term_order}(meta_key);
`

const sqliteSchema = `
-- Terms
CREATE TABLE IF NOT EXISTS {terms} (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    taxonomy TEXT NOT NULL,
    UNIQUE (taxonomy, slug)
);

CREATE INDEX IF NOT EXISTS idx_{terms}_taxonomy ON {terms}(taxonomy);

-- Term order
CREATE TABLE IF NOT EXISTS {term_order} (
    meta_id INTEGER PRIMARY KEY AUTOINCREMENT,
    term_id INTEGER NOT NULL DEFAULT 0,
    meta_key TEXT NOT NULL DEFAULT 'term_order',
    meta_value INTEGER NOT NULL,
    UNIQUE (term_id)
);

CREATE INDEX IF NOT EXISTS idx_{term_order}_meta_key ON {term_order}(meta_key);
`
