// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/danielhkuo/term-order/auth"
	"github.com/danielhkuo/term-order/cliparse"
	"github.com/danielhkuo/term-order/db"
)

// TestDBURL is an in-memory SQLite database, fresh for every SetupTestDB call
const TestDBURL = ":memory:"

// TestPrefix is the table prefix used by the test configuration
const TestPrefix = "tx_"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.SQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(context.Background(), conn, db.SQLite, TestPrefix); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: "sqlite",
		TablePrefix:  TestPrefix,
		AdminKeySalt: "test-admin-salt",
	}
}

// AdminKey returns the admin key accepted for cfg's site
func AdminKey(cfg cliparse.Config) string {
	return auth.GenerateAdminKey(cfg.TablePrefix, cfg.AdminKeySalt)
}

// CreateTestTerm inserts a term and returns its ID
func CreateTestTerm(t *testing.T, conn *sql.DB, name, taxonomy string) int64 {
	t.Helper()

	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	var id int64
	err := conn.QueryRow(`
		INSERT INTO tx_terms (name, slug, taxonomy)
		VALUES (?, ?, ?)
		RETURNING id
	`, name, slug, taxonomy).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test term: %v", err)
	}

	return id
}

// SetTestOrdinal writes an ordinal row directly
func SetTestOrdinal(t *testing.T, conn *sql.DB, termID int64, ordinal int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO tx_term_order (term_id, meta_key, meta_value)
		VALUES (?, 'term_order', ?)
	`, termID, ordinal)
	if err != nil {
		t.Fatalf("Failed to set test ordinal: %v", err)
	}
}

// OrderRows returns term_id -> meta_value for every stored row, failing on duplicates
func OrderRows(t *testing.T, conn *sql.DB) map[int64]int {
	t.Helper()

	rows, err := conn.Query(`SELECT term_id, meta_value FROM tx_term_order`)
	if err != nil {
		t.Fatalf("Failed to query term order: %v", err)
	}
	defer rows.Close()

	out := map[int64]int{}
	for rows.Next() {
		var termID int64
		var value int
		if err := rows.Scan(&termID, &value); err != nil {
			t.Fatalf("Failed to scan term order: %v", err)
		}
		if _, dup := out[termID]; dup {
			t.Fatalf("Duplicate term_order row for term %d", termID)
		}
		out[termID] = value
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to iterate term order: %v", err)
	}

	return out
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates a form-encoded HTTP test request
func MakeFormRequest(method, path string, form url.Values, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
