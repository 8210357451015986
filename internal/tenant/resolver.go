package tenant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"admin-gateway/internal/credentials"
	"admin-gateway/pkg/logger"

	"github.com/google/uuid"
)

// Directory is the backend's list of tenants.
type Directory interface {
	ListTenants(ctx context.Context) ([]Tenant, error)
}

// Listener is told when a caller changes tenant selection. previous may be empty.
type Listener func(ctx context.Context, previous, current string)

// Resolver maps tenant selections to validated tenant ids and keeps the
// Credential Store's selection current.
type Resolver struct {
	directory Directory
	registry  Registry
	cookieTTL time.Duration
	clock     func() time.Time

	mu        sync.RWMutex
	listeners []Listener
}

func NewResolver(directory Directory, registry Registry, cookieTTL time.Duration) *Resolver {
	if registry == nil {
		registry = NewMemoryRegistry()
	}
	return &Resolver{directory: directory, registry: registry, cookieTTL: cookieTTL, clock: time.Now}
}

// Subscribe registers fn for selection changes.
func (r *Resolver) Subscribe(fn Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// ListTenants returns the backend's tenants in backend order, followed by
// tenants created here that the backend does not list yet. Nothing is cached.
func (r *Resolver) ListTenants(ctx context.Context) ([]Tenant, error) {
	if r.directory == nil {
		return nil, errors.New("tenant: directory not configured")
	}
	remote, err := r.directory.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	local, err := r.registry.List(ctx)
	if err != nil {
		// The backend list is still authoritative; a registry outage only hides
		// tenants created here.
		logger.From(ctx).Warn("tenant registry list failed", "err", err)
		local = nil
	}

	seen := make(map[string]struct{}, len(remote)+len(local))
	out := make([]Tenant, 0, len(remote)+len(local))
	for _, t := range remote {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	for _, rec := range local {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec.Tenant)
	}
	return out, nil
}

// CreateTenant mints an id for name and persists the tenant.
func (r *Resolver) CreateTenant(ctx context.Context, name string) (Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tenant{}, ErrNameRequired
	}
	rec := Record{Tenant: Tenant{ID: uuid.NewString(), Name: name}, CreatedAt: r.clock().UTC()}
	if err := r.registry.Create(ctx, rec); err != nil {
		return Tenant{}, err
	}
	return rec.Tenant, nil
}

// SelectTenant persists id as the caller's selection and notifies listeners.
// A rejected selection leaves the store untouched.
func (r *Resolver) SelectTenant(ctx context.Context, store credentials.Store, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyTenantID
	}
	if !credentials.ValidValue(id) {
		return ErrInvalidTenantID
	}
	previous := store.TenantID()
	store.SetTenant(id, r.cookieTTL)

	r.mu.RLock()
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, previous, id)
	}
	return nil
}

// CurrentTenant returns the selected tenant id; ok is false when none is selected.
func (r *Resolver) CurrentTenant(store credentials.Store) (string, bool) {
	id := store.TenantID()
	return id, id != ""
}
