package rbac

import (
	"context"
	"errors"
	"sync"

	"admin-gateway/internal/gateway"
)

// Store is the backend side of the permission rules.
type Store interface {
	FetchPermissions(ctx context.Context, creds gateway.Credentials) (Rules, error)
	SavePermissions(ctx context.Context, creds gateway.Credentials, rules Rules) error
}

// Engine fetches and saves per-tenant rules and answers advisory checks from
// the last-fetched snapshot. The backend remains the enforcement point.
//
// Tenants are independent: each snapshot is keyed by tenant id and a save
// replaces the whole set.
type Engine struct {
	store Store

	mu        sync.RWMutex
	snapshots map[string]Rules
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, snapshots: map[string]Rules{}}
}

// Fetch loads the tenant's rules. A tenant that never saved rules yields an
// empty mapping, not an error.
func (e *Engine) Fetch(ctx context.Context, creds gateway.Credentials) (Rules, error) {
	if e.store == nil {
		return nil, errors.New("rbac: store not configured")
	}
	if err := creds.Check(gateway.Tenant); err != nil {
		return nil, err
	}
	rules, err := e.store.FetchPermissions(ctx, creds)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = Rules{}
	}
	rules = rules.Normalize()

	e.mu.Lock()
	e.snapshots[creds.TenantID] = rules
	e.mu.Unlock()
	return rules, nil
}

// Save validates and replaces the tenant's entire rule set.
func (e *Engine) Save(ctx context.Context, creds gateway.Credentials, rules Rules) error {
	if e.store == nil {
		return errors.New("rbac: store not configured")
	}
	if err := creds.Check(gateway.Tenant); err != nil {
		return err
	}
	if rules == nil {
		rules = Rules{}
	}
	if err := rules.Validate(); err != nil {
		return err
	}
	rules = rules.Normalize()
	if err := e.store.SavePermissions(ctx, creds, rules); err != nil {
		return err
	}

	e.mu.Lock()
	e.snapshots[creds.TenantID] = rules
	e.mu.Unlock()
	return nil
}

// Snapshot returns the last-fetched rules for tenantID.
func (e *Engine) Snapshot(tenantID string) (Rules, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.snapshots[tenantID]
	return r, ok
}

// IsAllowed answers from the last-fetched snapshot; no snapshot denies.
func (e *Engine) IsAllowed(tenantID, role, action, page string) bool {
	r, _ := e.Snapshot(tenantID)
	return r.IsAllowed(role, action, page)
}

// Invalidate drops the snapshot so the next check refetches.
func (e *Engine) Invalidate(tenantID string) {
	e.mu.Lock()
	delete(e.snapshots, tenantID)
	e.mu.Unlock()
}
