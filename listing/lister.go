// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package listing

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/term-order/db"
	"github.com/danielhkuo/term-order/hooks"
	"github.com/danielhkuo/term-order/models"
)

const baseFields = "t.id, t.name, t.slug, t.taxonomy"

// Lister runs term-listing queries through the terms_clauses filter.
type Lister struct {
	db      *sql.DB
	dialect db.Dialect
	table   string
	clauses *hooks.Filter[models.TermClauses]
}

func NewLister(conn *sql.DB, dialect db.Dialect, termsTable string, clauses *hooks.Filter[models.TermClauses]) *Lister {
	return &Lister{db: conn, dialect: dialect, table: termsTable, clauses: clauses}
}

// BaseClauses returns the unfiltered query: alphabetical, optionally
// restricted to one taxonomy.
func BaseClauses(taxonomy string) models.TermClauses {
	c := models.TermClauses{
		Fields:   baseFields,
		OrderBy:  "ORDER BY t.name ASC, t.id ASC",
		Taxonomy: taxonomy,
	}
	if taxonomy != "" {
		c.Where = "t.taxonomy = $1"
		c.Args = []any{taxonomy}
	}
	return c
}

// BuildQuery assembles the SELECT statement for c against table.
func BuildQuery(table string, c models.TermClauses) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s AS t", c.Fields, table)
	if j := strings.TrimSpace(c.Join); j != "" {
		b.WriteString(" " + j)
	}
	if c.Where != "" {
		b.WriteString(" WHERE " + c.Where)
	}
	if c.OrderBy != "" {
		b.WriteString(" " + c.OrderBy)
	}
	return b.String()
}

// List returns the terms of taxonomy (all terms when empty) in display order.
func (l *Lister) List(ctx context.Context, taxonomy string) ([]models.Term, error) {
	c, err := l.clauses.Apply(ctx, BaseClauses(taxonomy))
	if err != nil {
		return nil, err
	}

	query := l.dialect.Rebind(BuildQuery(l.table, c))
	rows, err := l.db.QueryContext(ctx, query, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	// A fifth column is the ordinal added by the order filter
	withOrdinal := len(cols) > 4

	terms := []models.Term{}
	for rows.Next() {
		var term models.Term
		dest := []any{&term.ID, &term.Name, &term.Slug, &term.Taxonomy}
		var ordinal sql.NullInt64
		if withOrdinal {
			dest = append(dest, &ordinal)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		if ordinal.Valid {
			v := int(ordinal.Int64)
			term.Ordinal = &v
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate terms: %w", err)
	}

	return terms, nil
}
