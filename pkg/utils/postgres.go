package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"admin-gateway/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresPingTimeout = 5 * time.Second

// OpenPostgres opens the registry/audit database described by cfg through the
// pgx stdlib driver and pings it once.
func OpenPostgres(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := newPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := HealthCheck(ctx, db, postgresPingTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newPostgres builds the pool without connecting.
func newPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// HealthCheck pings the DB with a timeout.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction is rolled back when fn
// fails or panics and committed otherwise.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
