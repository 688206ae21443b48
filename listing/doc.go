// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package listing builds term-listing queries and the filter that sorts them
by stored order.

# Query Pipeline

Lister.List starts from BaseClauses (alphabetical by name), passes them
through the terms_clauses filter hook, then assembles and runs the query:

	terms, err := lister.List(ctx, "category")

# Order Filter

Filter.Apply is registered on the terms_clauses hook. It adds

	LEFT JOIN <prefix>term_order AS tto ON t.id = tto.term_id

and replaces the ORDER BY so terms sort by tto.meta_value ascending. Terms
with no stored ordinal come after every ordered term, sorted by name and
then id. The policy is expressed in SQL so it is the same on PostgreSQL and
SQLite.

A Filter built with a taxonomy list leaves other taxonomies alphabetical.
*/
package listing
