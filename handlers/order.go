// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/term-order/cliparse"
	"github.com/danielhkuo/term-order/middleware"
	"github.com/danielhkuo/term-order/models"
	"github.com/danielhkuo/term-order/store"
)

// OrderAdmin is the maintenance side of the order store.
type OrderAdmin interface {
	List(ctx context.Context) ([]store.OrderEntry, error)
	Prune(ctx context.Context) (int64, error)
}

type OrderHandler struct {
	store OrderAdmin
	cfg   cliparse.Config
}

func NewOrderHandler(store OrderAdmin, cfg cliparse.Config) *OrderHandler {
	return &OrderHandler{store: store, cfg: cfg}
}

// List handles GET /admin/term-order
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	entries, err := h.store.List(r.Context())
	if err != nil {
		middleware.Logger(r.Context()).Error("failed to list term order", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.TermOrderResponse{Entries: make([]models.OrderEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, models.OrderEntry{
			ID:      e.ID,
			TermID:  e.TermID,
			Key:     e.Key,
			Ordinal: e.Ordinal,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Prune handles POST /admin/term-order/prune
// Deletes stored order for terms that no longer exist
func (h *OrderHandler) Prune(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	log := middleware.Logger(r.Context())

	removed, err := h.store.Prune(r.Context())
	if err != nil {
		log.Error("failed to prune term order", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	log.Info("term order pruned", "removed", removed)
	middleware.JSONResponse(w, http.StatusOK, models.PruneResponse{Removed: removed})
}
