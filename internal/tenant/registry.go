package tenant

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"admin-gateway/pkg/utils"
)

// Registry persists tenants created through the console.
type Registry interface {
	Create(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}

// MemoryRegistry keeps created tenants in insertion order. Single process only.
type MemoryRegistry struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryRegistry() *MemoryRegistry { return &MemoryRegistry{} }

func (r *MemoryRegistry) Create(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.ID == rec.ID {
			return fmt.Errorf("tenant %q already exists", rec.ID)
		}
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryRegistry) List(_ context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

// PostgresRegistry stores tenants in the orgs table.
type PostgresRegistry struct {
	db *sql.DB
}

func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

const orgsSchema = `
CREATE TABLE IF NOT EXISTS orgs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the orgs table when absent.
func (r *PostgresRegistry) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, orgsSchema); err != nil {
		return fmt.Errorf("create orgs table: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) Create(ctx context.Context, rec Record) error {
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const q = `INSERT INTO orgs (id, name, created_at) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, q, rec.ID, rec.Name, rec.CreatedAt); err != nil {
			return fmt.Errorf("insert org: %w", err)
		}
		return nil
	})
}

func (r *PostgresRegistry) List(ctx context.Context) ([]Record, error) {
	const q = `
SELECT id, name, created_at
FROM orgs
ORDER BY created_at ASC, id ASC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var created time.Time
		if err := rows.Scan(&rec.ID, &rec.Name, &created); err != nil {
			return nil, err
		}
		rec.CreatedAt = created
		out = append(out, rec)
	}
	return out, rows.Err()
}
