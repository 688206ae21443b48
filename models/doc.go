// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateTermRequest: name, slug, taxonomy
  - ReorderRequest: action, rows (term IDs in display order)

The reorder endpoint also accepts form-encoded rows; see handlers.

# Response Types

Types for JSON responses:

  - ReorderResponse: results (one per saved row)
  - ReorderErrorResponse: msg, errors, results
  - CreateTermResponse: term_id
  - ListTermsResponse: taxonomy, terms
  - TermOrderResponse: entries
  - PruneResponse: removed
  - ProvisionSiteResponse: site_id, table_prefix, admin_key
  - ErrorResponse: error, message

# Domain Types

  - Term: A taxonomy term, with its ordinal when one is stored
  - OrderEntry: One term_order row (meta_id, term_id, meta_key, meta_value)

# Hook Payloads

Typed values passed through the hook registry:

  - TermClauses: Query fragments for a term listing (terms_clauses filter)
  - TermDeleted: Emitted after a term row is removed (term_deleted action)
  - Site: A newly provisioned site (site_provisioned action)
*/
package models
