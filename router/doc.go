// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the term-order API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux, err := router.NewRouter(db, cfg)

It fails only on configuration errors (unknown database type, invalid
table prefix).

# Endpoints

Health:

	GET /health

Listing (public):

	GET /terms?taxonomy=category - Terms in display order

Admin (requires X-Admin-Key):

	POST   /admin/ajax                 - Save drag-and-drop order (action=term_order_save)
	POST   /admin/terms                - Create term
	DELETE /admin/terms/{id}           - Delete term and its stored order
	GET    /admin/term-order           - Dump stored ordinals
	POST   /admin/term-order/prune     - Remove order rows for missing terms
	POST   /admin/sites/{id}/provision - Create tables for a new site

# Hook Wiring

The router owns the hook registry. The term order plugin registers on it,
and handlers receive it (or the store) by injection:

	reg := hooks.NewRegistry()
	termOrder, _ := plugin.New(conn, dialect, cfg.TablePrefix, cfg.Taxonomies)
	termOrder.Register(reg)

There is no global registry; a second router gets its own.
*/
package router
