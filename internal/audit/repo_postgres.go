package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo writes to audit_events. The table is INSERT only.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         TEXT PRIMARY KEY,
	tenant_id  TEXT NOT NULL,
	type       TEXT NOT NULL,
	actor      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT '',
	ip_address TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL DEFAULT '',
	metadata   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("create audit_events table: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, tenant_id, type, actor, role, ip_address, request_id, message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	if _, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.TenantID,
		string(e.Type),
		e.Actor,
		e.Role,
		e.IPAddress,
		e.RequestID,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
