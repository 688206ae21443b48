// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package listing

import (
	"context"
	"fmt"

	"github.com/danielhkuo/term-order/models"
)

// OrderAlias is the alias the order table is joined under.
const OrderAlias = "tto"

// Terms without a stored ordinal sort after all ordered terms, by name then id.
const orderByOrdinal = "ORDER BY CASE WHEN tto.meta_value IS NULL THEN 1 ELSE 0 END, tto.meta_value ASC, t.name ASC, t.id ASC"

// Filter rewrites term-listing queries to sort by stored ordinal.
type Filter struct {
	orderTable string
	taxonomies map[string]struct{}
}

// NewFilter returns a Filter joining against orderTable. When taxonomies
// is non-empty only listings for those taxonomies are rewritten.
func NewFilter(orderTable string, taxonomies []string) *Filter {
	f := &Filter{orderTable: orderTable}
	if len(taxonomies) > 0 {
		f.taxonomies = make(map[string]struct{}, len(taxonomies))
		for _, tax := range taxonomies {
			f.taxonomies[tax] = struct{}{}
		}
	}
	return f
}

// Applies reports whether listings of taxonomy are rewritten.
func (f *Filter) Applies(taxonomy string) bool {
	if f.taxonomies == nil {
		return true
	}
	_, ok := f.taxonomies[taxonomy]
	return ok
}

// Apply appends the order join and replaces the ORDER BY clause.
// It matches hooks.FilterFunc[models.TermClauses].
func (f *Filter) Apply(ctx context.Context, c models.TermClauses) (models.TermClauses, error) {
	if !f.Applies(c.Taxonomy) {
		return c, nil
	}

	c.Fields += fmt.Sprintf(", %s.meta_value", OrderAlias)
	c.Join += fmt.Sprintf(" LEFT JOIN %s AS %s ON t.id = %s.term_id ", f.orderTable, OrderAlias, OrderAlias)
	c.OrderBy = orderByOrdinal
	return c, nil
}
