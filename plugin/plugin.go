// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package plugin

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/term-order/db"
	"github.com/danielhkuo/term-order/hooks"
	"github.com/danielhkuo/term-order/listing"
	"github.com/danielhkuo/term-order/models"
	"github.com/danielhkuo/term-order/store"
)

// TermOrder connects the order store and listing filter to the hook registry.
type TermOrder struct {
	db      *sql.DB
	dialect db.Dialect
	store   *store.Store
	filter  *listing.Filter
}

// New builds the plugin for the site using prefix. taxonomies scopes the
// listing filter; empty means every taxonomy.
func New(conn *sql.DB, dialect db.Dialect, prefix string, taxonomies []string) (*TermOrder, error) {
	s, err := store.New(conn, dialect, prefix)
	if err != nil {
		return nil, err
	}
	return &TermOrder{
		db:      conn,
		dialect: dialect,
		store:   s,
		filter:  listing.NewFilter(s.Tables().TermOrder, taxonomies),
	}, nil
}

func (p *TermOrder) Store() *store.Store {
	return p.store
}

// Migrate creates the site's tables. Run once at startup.
func (p *TermOrder) Migrate(ctx context.Context) error {
	return p.store.EnsureSchema(ctx)
}

// Register installs the listing filter and lifecycle actions.
func (p *TermOrder) Register(reg *hooks.Registry) {
	reg.TermsClauses.Add(hooks.DefaultPriority, p.filter.Apply)
	reg.TermDeleted.Add(hooks.DefaultPriority, p.termDeleted)
	reg.SiteProvisioned.Add(hooks.DefaultPriority, p.siteProvisioned)
}

func (p *TermOrder) termDeleted(ctx context.Context, ev models.TermDeleted) error {
	if err := p.store.Delete(ctx, ev.TermID); err != nil {
		return err
	}
	slog.Debug("removed term order", "term_id", ev.TermID)
	return nil
}

func (p *TermOrder) siteProvisioned(ctx context.Context, site models.Site) error {
	s, err := store.New(p.db, p.dialect, site.Prefix)
	if err != nil {
		return fmt.Errorf("site %d: %w", site.ID, err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("site %d: %w", site.ID, err)
	}
	return nil
}
