// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, SQL dialects and schema creation.

# Connecting

Open selects the driver from the dialect (lib/pq or modernc.org/sqlite):

	conn, err := db.Open(ctx, db.SQLite, "file:terms.db")

# Schema Creation

CreateSchema initializes the tables for one table prefix:

	if err := db.CreateSchema(ctx, conn, db.Postgres, "tx_"); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
It runs once at startup and again whenever a new site is provisioned
(SitePrefix gives the per-site prefix).

# Tables

  - <prefix>terms: Taxonomy terms (name, slug, taxonomy)
  - <prefix>term_order: One ordinal per term (meta_value), unique on term_id

term_order rows are not tied to terms with a foreign key. Rows are removed
through the term deletion hook or pruned explicitly.

# Placeholders

Queries are written with PostgreSQL placeholders. Rebind converts them for
SQLite:

	q := dialect.Rebind("SELECT meta_value FROM tx_term_order WHERE term_id = $1")
*/
package db
