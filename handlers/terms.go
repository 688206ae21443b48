// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/danielhkuo/term-order/auth"
	"github.com/danielhkuo/term-order/cliparse"
	"github.com/danielhkuo/term-order/db"
	"github.com/danielhkuo/term-order/hooks"
	"github.com/danielhkuo/term-order/listing"
	"github.com/danielhkuo/term-order/middleware"
	"github.com/danielhkuo/term-order/models"
)

type TermHandler struct {
	db      *sql.DB
	dialect db.Dialect
	tables  db.Tables
	lister  *listing.Lister
	hooks   *hooks.Registry
	cfg     cliparse.Config
}

func NewTermHandler(conn *sql.DB, dialect db.Dialect, tables db.Tables, lister *listing.Lister, reg *hooks.Registry, cfg cliparse.Config) *TermHandler {
	return &TermHandler{db: conn, dialect: dialect, tables: tables, lister: lister, hooks: reg, cfg: cfg}
}

// List handles GET /terms
// Returns terms in display order, optionally for one ?taxonomy=
func (h *TermHandler) List(w http.ResponseWriter, r *http.Request) {
	taxonomy := strings.TrimSpace(r.URL.Query().Get("taxonomy"))

	terms, err := h.lister.List(r.Context(), taxonomy)
	if err != nil {
		middleware.Logger(r.Context()).Error("failed to list terms", "taxonomy", taxonomy, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListTermsResponse{
		Taxonomy: taxonomy,
		Terms:    terms,
	})
}

// Create handles POST /admin/terms
func (h *TermHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	var req models.CreateTermRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Taxonomy = strings.TrimSpace(req.Taxonomy)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Taxonomy == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "taxonomy is required")
		return
	}
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}
	if req.Slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required when the name has no letters or digits")
		return
	}

	log := middleware.Logger(r.Context())

	var exists bool
	err := h.db.QueryRowContext(r.Context(), h.dialect.Rebind(fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM %s WHERE taxonomy = $1 AND slug = $2)
	`, h.tables.Terms)), req.Taxonomy, req.Slug).Scan(&exists)
	if err != nil {
		log.Error("failed to check term slug", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict, "slug already used in this taxonomy")
		return
	}

	var termID int64
	err = h.db.QueryRowContext(r.Context(), h.dialect.Rebind(fmt.Sprintf(`
		INSERT INTO %s (name, slug, taxonomy)
		VALUES ($1, $2, $3)
		RETURNING id
	`, h.tables.Terms)), req.Name, req.Slug, req.Taxonomy).Scan(&termID)
	if err != nil {
		log.Error("failed to insert term", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create term")
		return
	}

	log.Info("term created", "term_id", termID, "taxonomy", req.Taxonomy)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateTermResponse{TermID: termID})
}

// Delete handles DELETE /admin/terms/{id}
// Removes the term, then fires term_deleted so its stored order goes too
func (h *TermHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	termID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || termID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid term id")
		return
	}

	log := middleware.Logger(r.Context())

	var taxonomy string
	err = h.db.QueryRowContext(r.Context(), h.dialect.Rebind(fmt.Sprintf(`
		SELECT taxonomy FROM %s WHERE id = $1
	`, h.tables.Terms)), termID).Scan(&taxonomy)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Term not found")
		return
	}
	if err != nil {
		log.Error("failed to query term", "term_id", termID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = h.db.ExecContext(r.Context(), h.dialect.Rebind(fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1
	`, h.tables.Terms)), termID)
	if err != nil {
		log.Error("failed to delete term", "term_id", termID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete term")
		return
	}

	if err := h.hooks.TermDeleted.Do(r.Context(), models.TermDeleted{TermID: termID, Taxonomy: taxonomy}); err != nil {
		log.Error("term deleted but cleanup failed", "term_id", termID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Term deleted but order cleanup failed")
		return
	}

	log.Info("term deleted", "term_id", termID)
	w.WriteHeader(http.StatusNoContent)
}

// requireAdmin writes a 401 and returns false unless X-Admin-Key matches this site
func requireAdmin(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(cfg.TablePrefix, adminKey, cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// slugify folds accents, lowercases s and collapses anything that isn't a
// letter or digit into "-". Letters outside Latin scripts are kept.
func slugify(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(s) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
