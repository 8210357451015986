package tenant

import (
	"errors"
	"time"
)

// Tenant is an isolated customer organization.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	ErrEmptyTenantID   = errors.New("tenant id is required")
	ErrInvalidTenantID = errors.New("tenant id contains characters a cookie cannot hold")
	ErrNameRequired    = errors.New("name is required")
)

// Record is a tenant minted by this gateway.
type Record struct {
	Tenant
	CreatedAt time.Time
}
