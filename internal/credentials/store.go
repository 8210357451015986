// Package credentials holds the session token and tenant selection for one
// caller. Components receive a Store explicitly; none of them reads cookies
// or headers on its own.
package credentials

import (
	"sync"
	"time"
)

const (
	CookieToken  = "token"
	CookieTenant = "orgId"

	HeaderAPIKey        = "X-API-Key"
	HeaderOrgID         = "X-Org-ID"
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// Store is the single source of truth for the caller's session token and
// selected tenant. Empty strings mean "absent".
type Store interface {
	Token() string
	TenantID() string
	SetToken(token string, expiresAt time.Time)
	SetTenant(tenantID string, ttl time.Duration)
	// ClearToken drops the session token and keeps the tenant selection.
	ClearToken()
	// Clear drops both the token and the tenant selection. Idempotent.
	Clear()
}

// MemoryStore keeps credentials in process. Used by tests and non-HTTP callers.
type MemoryStore struct {
	mu       sync.Mutex
	token    string
	tenantID string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryStore) TenantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenantID
}

func (s *MemoryStore) SetToken(token string, _ time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryStore) SetTenant(tenantID string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenantID = tenantID
}

func (s *MemoryStore) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.tenantID = ""
}
