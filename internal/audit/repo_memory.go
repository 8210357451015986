package audit

import (
	"context"
	"sync"
)

// MemoryRepo keeps the most recent events in process. It backs the audit
// trail when no database is configured; older events fall off once limit is
// reached.
type MemoryRepo struct {
	mu     sync.Mutex
	limit  int
	events []Event
}

// NewMemoryRepo returns a repo retaining at most limit events. A non-positive
// limit keeps everything.
func NewMemoryRepo(limit int) *MemoryRepo {
	return &MemoryRepo{limit: limit}
}

func (r *MemoryRepo) Append(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append(r.events[:0:0], r.events[len(r.events)-r.limit:]...)
	}
	return nil
}

// List returns tenantID's retained events, newest first. An empty tenantID
// lists every tenant.
func (r *MemoryRepo) List(_ context.Context, tenantID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.events))
	for i := len(r.events) - 1; i >= 0; i-- {
		if tenantID == "" || r.events[i].TenantID == tenantID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}
