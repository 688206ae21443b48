// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/danielhkuo/term-order/cliparse"
	"github.com/danielhkuo/term-order/models"
	"github.com/danielhkuo/term-order/testutil"
)

func newTestRouter(t *testing.T, db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	t.Helper()
	mux, err := NewRouter(db, cfg)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return mux
}

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "term-order API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestNewRouterConfigErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	cfg.DatabaseType = "mysql"
	if _, err := NewRouter(db, cfg); err == nil {
		t.Error("Expected error for unsupported database type")
	}

	cfg = testutil.GetTestConfig()
	cfg.TablePrefix = "bad prefix"
	if _, err := NewRouter(db, cfg); err == nil {
		t.Error("Expected error for invalid table prefix")
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, db, cfg)

	// Test that routes respond (handler is invoked)
	// Admin routes return 401 without a key, which is valid handler behavior
	testCases := []struct {
		method string
		path   string
	}{
		// Health and root
		{"GET", "/health"},
		{"GET", "/"},

		// Listing
		{"GET", "/terms"},

		// Admin routes
		{"POST", "/admin/ajax"},
		{"POST", "/admin/terms"},
		{"DELETE", "/admin/terms/1"},
		{"GET", "/admin/term-order"},
		{"POST", "/admin/term-order/prune"},
		{"POST", "/admin/sites/2/provision"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Route should be matched (not 405 Method Not Allowed for these specific routes)
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, db, cfg)

	// Test that unsupported methods on defined routes return 405
	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},       // Only GET is defined
		{"GET", "/admin/ajax"},    // Only POST is defined
		{"PUT", "/admin/terms/1"}, // Only DELETE is defined
		{"DELETE", "/terms"},      // Only GET is defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	termID := testutil.CreateTestTerm(t, db, "News", "category")
	mux := newTestRouter(t, db, cfg)

	// Test that {id} parameter extracts correctly
	t.Run("term ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/admin/terms/"+strconv.FormatInt(termID, 10), nil)
		req.Header.Set("X-Admin-Key", testutil.AdminKey(cfg))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204 with valid admin key, got %d. Body: %s", w.Code, w.Body.String())
		}
	})
}

func TestReorderAndListFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, db, cfg)
	adminHeaders := map[string]string{"X-Admin-Key": testutil.AdminKey(cfg)}

	// Create terms through the API
	ids := map[string]int64{}
	for _, name := range []string{"Apples", "Bananas", "Cherries", "Dates"} {
		req := testutil.MakeRequest("POST", "/admin/terms", models.CreateTermRequest{Name: name, Taxonomy: "category"}, adminHeaders)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CreateTermResponse
		testutil.AssertJSON(t, w, &resp)
		ids[name] = resp.TermID
	}

	// Drag-and-drop save: Cherries, Apples, Bananas. Dates stays unordered.
	form := url.Values{}
	form.Set("action", models.ActionSaveTermOrder)
	form.Set("rows[0]", strconv.FormatInt(ids["Cherries"], 10))
	form.Set("rows[1]", strconv.FormatInt(ids["Apples"], 10))
	form.Set("rows[2]", strconv.FormatInt(ids["Bananas"], 10))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeFormRequest("POST", "/admin/ajax", form, adminHeaders))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Public listing follows the saved order
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/terms?taxonomy=category", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list models.ListTermsResponse
	testutil.AssertJSON(t, w, &list)

	want := []string{"Cherries", "Apples", "Bananas", "Dates"}
	if len(list.Terms) != len(want) {
		t.Fatalf("Expected %d terms, got %d", len(want), len(list.Terms))
	}
	for i, term := range list.Terms {
		if term.Name != want[i] {
			t.Errorf("terms[%d] = %s, want %s", i, term.Name, want[i])
		}
	}

	// Deleting a term removes its stored order
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("DELETE", "/admin/terms/"+strconv.FormatInt(ids["Apples"], 10), nil, adminHeaders))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/admin/term-order", nil, adminHeaders))
	testutil.AssertStatus(t, w, http.StatusOK)

	var order models.TermOrderResponse
	testutil.AssertJSON(t, w, &order)
	if len(order.Entries) != 2 {
		t.Fatalf("Expected 2 order entries after delete, got %d", len(order.Entries))
	}
	for _, e := range order.Entries {
		if e.TermID == ids["Apples"] {
			t.Error("Expected order entry for deleted term to be removed")
		}
	}
}

func TestProvisionSiteFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, db, cfg)

	req := testutil.MakeRequest("POST", "/admin/sites/7/provision", nil, map[string]string{"X-Admin-Key": testutil.AdminKey(cfg)})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.ProvisionSiteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TablePrefix != "tx_7_" {
		t.Errorf("Expected prefix tx_7_, got %s", resp.TablePrefix)
	}

	// The new site's admin key works against a router for that site
	siteCfg := cfg
	siteCfg.TablePrefix = resp.TablePrefix
	siteMux := newTestRouter(t, db, siteCfg)

	w = httptest.NewRecorder()
	siteMux.ServeHTTP(w, testutil.MakeRequest("GET", "/admin/term-order", nil, map[string]string{"X-Admin-Key": resp.AdminKey}))
	testutil.AssertStatus(t, w, http.StatusOK)

	// The main site's key does not
	w = httptest.NewRecorder()
	siteMux.ServeHTTP(w, testutil.MakeRequest("GET", "/admin/term-order", nil, map[string]string{"X-Admin-Key": testutil.AdminKey(cfg)}))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
