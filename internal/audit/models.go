package audit

import "time"

// Event is an immutable, append-only record of a console change.
//
// Invariants:
// - Events are never updated or deleted.
// - tenant_id is required, except for tenant creation which carries the new id.
// - actor and ip capture are best-effort; do not block console flows on audit failures.
type Event struct {
	ID       string    `json:"id" db:"id"`
	TenantID string    `json:"tenant_id" db:"tenant_id"`
	Type     EventType `json:"type" db:"type"`

	// Actor is the session username, Role its role.
	Actor string `json:"actor,omitempty" db:"actor"`
	Role  string `json:"role,omitempty" db:"role"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`
	RequestID string `json:"request_id,omitempty" db:"request_id"`

	Message  string `json:"message,omitempty" db:"message"`
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTenantCreated     EventType = "org_created"
	EventTenantSelected    EventType = "tenant_selected"
	EventPermissionsSaved  EventType = "permissions_saved"
	EventThemeSaved        EventType = "theme_saved"
	EventDocumentsIngested EventType = "docs_ingested"
)
