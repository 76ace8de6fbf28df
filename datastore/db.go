package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

// Open establishes the shared connection pool and verifies it is usable.
// The pool is closed by the caller on shutdown.
func Open(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the backing tables when missing. The DDL is
// idempotent; there is no migration system. The unique index on users.email
// is what closes the register/register race: the advisory pre-check in the
// auth handler can pass on both sides, but only one insert wins.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (email)`,
		`CREATE TABLE IF NOT EXISTS all_products (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			doc JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS flash_sale (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			doc JSONB NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
