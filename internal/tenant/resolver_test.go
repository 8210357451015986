package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"admin-gateway/internal/credentials"
)

type fakeDirectory struct {
	tenants []Tenant
	err     error
	calls   int
}

func (f *fakeDirectory) ListTenants(context.Context) ([]Tenant, error) {
	f.calls++
	return f.tenants, f.err
}

func TestSelectTenant_RejectsEmpty(t *testing.T) {
	r := NewResolver(&fakeDirectory{}, nil, 7*24*time.Hour)
	store := credentials.NewMemoryStore()
	store.SetTenant("org_1", time.Hour)

	notified := 0
	r.Subscribe(func(context.Context, string, string) { notified++ })

	for _, id := range []string{"", "   "} {
		if err := r.SelectTenant(context.Background(), store, id); !errors.Is(err, ErrEmptyTenantID) {
			t.Fatalf("expected ErrEmptyTenantID, got %v", err)
		}
	}
	if got, _ := r.CurrentTenant(store); got != "org_1" {
		t.Fatalf("expected selection unchanged, got %q", got)
	}
	if notified != 0 {
		t.Fatalf("rejected selection must not notify")
	}
}

func TestSelectTenant_RejectsUnstorableID(t *testing.T) {
	r := NewResolver(&fakeDirectory{}, nil, 7*24*time.Hour)
	store := credentials.NewMemoryStore()
	store.SetTenant("org_1", time.Hour)

	notified := 0
	r.Subscribe(func(context.Context, string, string) { notified++ })

	for _, id := range []string{"org;7", `org"7`, `org\7`, "org 7", "orgé"} {
		if err := r.SelectTenant(context.Background(), store, id); !errors.Is(err, ErrInvalidTenantID) {
			t.Fatalf("%q: expected ErrInvalidTenantID, got %v", id, err)
		}
	}
	if got, _ := r.CurrentTenant(store); got != "org_1" {
		t.Fatalf("expected selection unchanged, got %q", got)
	}
	if notified != 0 {
		t.Fatalf("rejected selection must not notify")
	}
}

func TestSelectTenant_PersistsAndNotifies(t *testing.T) {
	r := NewResolver(&fakeDirectory{}, nil, 7*24*time.Hour)
	store := credentials.NewMemoryStore()

	if _, ok := r.CurrentTenant(store); ok {
		t.Fatalf("expected no tenant selected")
	}

	var prev, cur string
	r.Subscribe(func(_ context.Context, p, c string) { prev, cur = p, c })

	if err := r.SelectTenant(context.Background(), store, "org_42"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got, ok := r.CurrentTenant(store); !ok || got != "org_42" {
		t.Fatalf("expected org_42, got %q", got)
	}
	if prev != "" || cur != "org_42" {
		t.Fatalf("unexpected notification %q -> %q", prev, cur)
	}

	_ = r.SelectTenant(context.Background(), store, "org_7")
	if prev != "org_42" || cur != "org_7" {
		t.Fatalf("unexpected notification %q -> %q", prev, cur)
	}
}

func TestListTenants_MergesRegistry(t *testing.T) {
	dir := &fakeDirectory{tenants: []Tenant{{ID: "b", Name: "Beta"}, {ID: "a", Name: "Alpha"}}}
	reg := NewMemoryRegistry()
	r := NewResolver(dir, reg, time.Hour)
	ctx := context.Background()

	created, err := r.CreateTenant(ctx, "  Gamma ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Name != "Gamma" {
		t.Fatalf("unexpected tenant %+v", created)
	}
	_ = reg.Create(ctx, Record{Tenant: Tenant{ID: "a", Name: "Alpha"}})

	got, err := r.ListTenants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"b", "a", created.ID}
	if len(got) != len(want) {
		t.Fatalf("expected %d tenants, got %v", len(want), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, got[i].ID)
		}
	}

	// No caching across calls.
	_, _ = r.ListTenants(ctx)
	if dir.calls != 2 {
		t.Fatalf("expected a backend call per list, got %d", dir.calls)
	}
}

func TestListTenants_PropagatesBackendError(t *testing.T) {
	boom := errors.New("boom")
	r := NewResolver(&fakeDirectory{err: boom}, nil, time.Hour)
	if _, err := r.ListTenants(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestCreateTenant_RequiresName(t *testing.T) {
	r := NewResolver(&fakeDirectory{}, nil, time.Hour)
	if _, err := r.CreateTenant(context.Background(), " "); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestMemoryRegistry_RejectsDuplicateID(t *testing.T) {
	reg := NewMemoryRegistry()
	rec := Record{Tenant: Tenant{ID: "x", Name: "X"}}
	if err := reg.Create(context.Background(), rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.Create(context.Background(), rec); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

var (
	_ Registry = (*MemoryRegistry)(nil)
	_ Registry = (*PostgresRegistry)(nil)
)
