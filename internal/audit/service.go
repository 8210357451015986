package audit

import (
	"context"
	"errors"
	"time"

	"admin-gateway/internal/auth"
	"admin-gateway/pkg/logger"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It is append-only: there is no Update or Delete.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records console changes.
//
// Audit is internal-only and never exposed through the console API.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.TenantID == "" || e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends an event filled from the request context: session identity,
// client IP and request id. Failures are logged and swallowed.
func (s *Service) Record(ctx context.Context, tenantID string, typ EventType, message string) {
	if s == nil {
		return
	}
	actor, _ := auth.Username(ctx)
	role, _ := auth.Role(ctx)
	e := Event{
		TenantID:  tenantID,
		Type:      typ,
		Actor:     actor,
		Role:      role,
		IPAddress: ClientIPFromContext(ctx),
		RequestID: logger.RequestID(ctx),
		Message:   message,
	}
	if err := s.Append(ctx, e); err != nil {
		logger.From(ctx).Warn("audit append failed", "type", string(typ), "tenant_id", tenantID, "err", err)
	}
}
