// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/term-order/cliparse"
	"github.com/danielhkuo/term-order/db"
	"github.com/danielhkuo/term-order/handlers"
	"github.com/danielhkuo/term-order/hooks"
	"github.com/danielhkuo/term-order/listing"
	"github.com/danielhkuo/term-order/middleware"
	"github.com/danielhkuo/term-order/plugin"
)

func NewRouter(conn *sql.DB, cfg cliparse.Config) (*http.ServeMux, error) {
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	// Hooks and the term order plugin
	reg := hooks.NewRegistry()
	termOrder, err := plugin.New(conn, dialect, cfg.TablePrefix, cfg.Taxonomies)
	if err != nil {
		return nil, err
	}
	termOrder.Register(reg)

	tables := termOrder.Store().Tables()
	lister := listing.NewLister(conn, dialect, tables.Terms, reg.TermsClauses)

	// Initialize handlers
	reorderHandler := handlers.NewReorderHandler(termOrder.Store(), cfg)
	orderHandler := handlers.NewOrderHandler(termOrder.Store(), cfg)
	termHandler := handlers.NewTermHandler(conn, dialect, tables, lister, reg, cfg)
	siteHandler := handlers.NewSiteHandler(reg, cfg)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Term listing (public, sorted by stored order)
	mux.HandleFunc("GET /terms", middleware.WithLogging(termHandler.List))

	// Drag-and-drop save (admin)
	mux.HandleFunc("POST /admin/ajax", middleware.WithLogging(reorderHandler.Save))

	// Term management (admin)
	mux.HandleFunc("POST /admin/terms", middleware.WithLogging(termHandler.Create))
	mux.HandleFunc("DELETE /admin/terms/{id}", middleware.WithLogging(termHandler.Delete))

	// Order maintenance (admin)
	mux.HandleFunc("GET /admin/term-order", middleware.WithLogging(orderHandler.List))
	mux.HandleFunc("POST /admin/term-order/prune", middleware.WithLogging(orderHandler.Prune))

	// Multisite provisioning (admin)
	mux.HandleFunc("POST /admin/sites/{id}/provision", middleware.WithLogging(siteHandler.Provision))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("term-order API v1"))
	})

	return mux, nil
}
