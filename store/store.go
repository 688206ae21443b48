// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/term-order/db"
)

// OrderEntry is one row of the term_order table.
type OrderEntry struct {
	ID      int64
	TermID  int64
	Key     string
	Ordinal int
}

// UpsertError reports a failed ordinal write along with the statement that failed.
type UpsertError struct {
	TermID  int64
	Ordinal int
	Query   string
	Err     error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("updating term order failed for term %d: %v (query: %s)", e.TermID, e.Err, e.Query)
}

func (e *UpsertError) Unwrap() error { return e.Err }

// Store persists term ordinals for one site.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
	tables  db.Tables
}

// New returns a Store for the tables under prefix.
func New(conn *sql.DB, dialect db.Dialect, prefix string) (*Store, error) {
	tables, err := db.TablesFor(prefix)
	if err != nil {
		return nil, err
	}
	return &Store{db: conn, dialect: dialect, tables: tables}, nil
}

// Tables returns the table names the store reads and writes.
func (s *Store) Tables() db.Tables {
	return s.tables
}

// EnsureSchema creates the backing tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return db.CreateSchema(ctx, s.db, s.dialect, s.tables.Prefix)
}

// Upsert sets the ordinal for termID, inserting a row if none exists.
// The unique index on term_id makes concurrent calls for the same term
// converge on one row; the last write wins.
func (s *Store) Upsert(ctx context.Context, termID int64, ordinal int) error {
	query := s.dialect.Rebind(fmt.Sprintf(`
		INSERT INTO %s (term_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (term_id) DO UPDATE SET meta_key = excluded.meta_key, meta_value = excluded.meta_value
	`, s.tables.TermOrder))

	if _, err := s.db.ExecContext(ctx, query, termID, db.MetaKey, ordinal); err != nil {
		return &UpsertError{TermID: termID, Ordinal: ordinal, Query: query, Err: err}
	}
	return nil
}

// GetOrdinal returns the stored ordinal for termID. ok is false when the
// term has no entry.
func (s *Store) GetOrdinal(ctx context.Context, termID int64) (ordinal int, ok bool, err error) {
	query := s.dialect.Rebind(fmt.Sprintf(`SELECT meta_value FROM %s WHERE term_id = $1`, s.tables.TermOrder))

	err = s.db.QueryRowContext(ctx, query, termID).Scan(&ordinal)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get ordinal for term %d: %w", termID, err)
	}
	return ordinal, true, nil
}

// Delete removes the entry for termID. Deleting a missing entry is not an error.
func (s *Store) Delete(ctx context.Context, termID int64) error {
	query := s.dialect.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE term_id = $1`, s.tables.TermOrder))

	if _, err := s.db.ExecContext(ctx, query, termID); err != nil {
		return fmt.Errorf("failed to delete ordinal for term %d: %w", termID, err)
	}
	return nil
}

// Prune deletes entries whose term no longer exists and returns how many
// rows were removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE NOT EXISTS (SELECT 1 FROM %[2]s t WHERE t.id = %[1]s.term_id)
	`, s.tables.TermOrder, s.tables.Terms)

	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prune term order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return n, nil
}

// List returns every entry ordered by ordinal.
func (s *Store) List(ctx context.Context) ([]OrderEntry, error) {
	query := fmt.Sprintf(`
		SELECT meta_id, term_id, meta_key, meta_value
		FROM %s
		ORDER BY meta_value ASC, term_id ASC
	`, s.tables.TermOrder)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list term order: %w", err)
	}
	defer rows.Close()

	entries := []OrderEntry{}
	for rows.Next() {
		var e OrderEntry
		if err := rows.Scan(&e.ID, &e.TermID, &e.Key, &e.Ordinal); err != nil {
			return nil, fmt.Errorf("failed to scan term order: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate term order: %w", err)
	}
	return entries, nil
}
