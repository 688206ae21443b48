// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/term-order/auth"
	"github.com/danielhkuo/term-order/cliparse"
	"github.com/danielhkuo/term-order/db"
	"github.com/danielhkuo/term-order/hooks"
	"github.com/danielhkuo/term-order/middleware"
	"github.com/danielhkuo/term-order/models"
)

type SiteHandler struct {
	hooks *hooks.Registry
	cfg   cliparse.Config
}

func NewSiteHandler(reg *hooks.Registry, cfg cliparse.Config) *SiteHandler {
	return &SiteHandler{hooks: reg, cfg: cfg}
}

// Provision handles POST /admin/sites/{id}/provision
// Fires site_provisioned for the site's table prefix and returns its admin key.
// Safe to repeat for an existing site.
func (h *SiteHandler) Provision(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	siteID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || siteID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid site id")
		return
	}

	site := models.Site{ID: siteID, Prefix: db.SitePrefix(h.cfg.TablePrefix, siteID)}
	log := middleware.Logger(r.Context())

	if err := h.hooks.SiteProvisioned.Do(r.Context(), site); err != nil {
		log.Error("failed to provision site", "site_id", siteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to provision site")
		return
	}

	log.Info("site provisioned", "site_id", siteID, "prefix", site.Prefix)
	middleware.JSONResponse(w, http.StatusCreated, models.ProvisionSiteResponse{
		SiteID:      siteID,
		TablePrefix: site.Prefix,
		AdminKey:    auth.GenerateAdminKey(site.Prefix, h.cfg.AdminKeySalt),
	})
}
