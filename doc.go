// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the term-order API server.

term-order stores a manual display order for taxonomy terms (categories,
tags) and sorts term listings by it. Admins drag terms into place, the
client posts the new sequence, and every listing for an ordered taxonomy
comes back in that sequence, with unordered terms after them by name.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t sqlite -d ./terms.db -admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite path
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TABLE_PREFIX (-prefix): Table prefix for the main site (default: tx_)
  - ORDERED_TAXONOMIES (-taxonomies): Comma-separated taxonomies to sort (default: all)
  - CONFIG_FILE (-c): YAML file with the same settings

A .env file in the working directory is used as a last fallback if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (reorder, terms, order, sites)
  - router: Route definitions using Go 1.22+ routing
  - plugin: Registers the term order behavior on the hook registry
  - hooks: Typed filters and actions
  - listing: Term listing query and the ORDER BY rewrite
  - store: Term ordinal persistence
  - middleware: CORS, request IDs, logging, JSON helpers
  - models: Request/response types
  - auth: Admin key generation and validation
  - db: Dialects and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
