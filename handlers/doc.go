// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the term-order API.

# Handler Types

Each handler is a struct with its dependencies and the config:

  - ReorderHandler: Drag-and-drop save (writes ordinals through an OrderWriter)
  - TermHandler: Term listing, creation and deletion
  - OrderHandler: Stored order dump and prune
  - SiteHandler: Multisite table provisioning

Handlers are created via constructor functions:

	reorderHandler := handlers.NewReorderHandler(store, cfg)

Admin operations require the X-Admin-Key header.

# Reorder Request

The admin UI posts the dragged rows top to bottom:

	POST /admin/ajax
	action=term_order_save&rows[0]=5&rows[1]=9&rows[2]=2

rows[]=5&rows[]=9 and a JSON body {"action": ..., "rows": [...]} are
accepted as well. Row N gets ordinal N+1. Empty or non-numeric rows are
skipped without shifting later positions.

Every row is attempted. If any write fails the response is 500 with the
joined failure messages in "msg" and a per-row result list; otherwise it
is 200 with the results.

# Term Deletion

Delete removes the term row and then fires the term_deleted action, which
the term order plugin uses to drop the stored ordinal.
*/
package handlers
