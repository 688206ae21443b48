// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hooks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/danielhkuo/term-order/models"
)

// Hook names
const (
	TermsClauses    = "terms_clauses"
	TermDeleted     = "term_deleted"
	SiteProvisioned = "site_provisioned"
)

// DefaultPriority is used by callers that don't care about ordering
const DefaultPriority = 10

type FilterFunc[T any] func(ctx context.Context, v T) (T, error)

type ActionFunc[T any] func(ctx context.Context, v T) error

type callback[F any] struct {
	priority int
	fn       F
}

// point is a named, priority-ordered list of callbacks.
// Equal priorities keep registration order.
type point[F any] struct {
	name      string
	mu        sync.RWMutex
	callbacks []callback[F]
}

func (p *point[F]) add(priority int, fn F) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.callbacks = append(p.callbacks, callback[F]{priority: priority, fn: fn})
	slices.SortStableFunc(p.callbacks, func(a, b callback[F]) int {
		return cmp.Compare(a.priority, b.priority)
	})
}

func (p *point[F]) snapshot() []callback[F] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.callbacks)
}

// Len returns the number of registered callbacks
func (p *point[F]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.callbacks)
}

// Name returns the hook name
func (p *point[F]) Name() string {
	return p.name
}

// Filter passes a value through every callback in turn.
type Filter[T any] struct {
	point[FilterFunc[T]]
}

func NewFilter[T any](name string) *Filter[T] {
	return &Filter[T]{point[FilterFunc[T]]{name: name}}
}

// Add registers fn. Lower priorities run first.
func (f *Filter[T]) Add(priority int, fn FilterFunc[T]) {
	f.add(priority, fn)
}

// Apply runs the chain. The first error stops it and is returned with the
// value as it stood before the failing callback.
func (f *Filter[T]) Apply(ctx context.Context, v T) (T, error) {
	for _, cb := range f.snapshot() {
		next, err := cb.fn(ctx, v)
		if err != nil {
			return v, fmt.Errorf("filter %s: %w", f.name, err)
		}
		v = next
	}
	return v, nil
}

// Action notifies every callback of an event.
type Action[T any] struct {
	point[ActionFunc[T]]
}

func NewAction[T any](name string) *Action[T] {
	return &Action[T]{point[ActionFunc[T]]{name: name}}
}

// Add registers fn. Lower priorities run first.
func (a *Action[T]) Add(priority int, fn ActionFunc[T]) {
	a.add(priority, fn)
}

// Do runs every callback, even after a failure, and joins the errors.
func (a *Action[T]) Do(ctx context.Context, v T) error {
	var errs []error
	for _, cb := range a.snapshot() {
		if err := cb.fn(ctx, v); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("action %s: %w", a.name, errors.Join(errs...))
	}
	return nil
}

// Registry holds the extension points the service invokes.
type Registry struct {
	TermsClauses    *Filter[models.TermClauses]
	TermDeleted     *Action[models.TermDeleted]
	SiteProvisioned *Action[models.Site]
}

func NewRegistry() *Registry {
	return &Registry{
		TermsClauses:    NewFilter[models.TermClauses](TermsClauses),
		TermDeleted:     NewAction[models.TermDeleted](TermDeleted),
		SiteProvisioned: NewAction[models.Site](SiteProvisioned),
	}
}
