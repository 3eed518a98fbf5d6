// Package postgres opens the application database and bootstraps its schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id          BIGSERIAL PRIMARY KEY,
		tx_date     DATE NOT NULL,
		kind        TEXT NOT NULL,
		amount      DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (tx_date, id)`,
	`CREATE TABLE IF NOT EXISTS requests (
		id        BIGSERIAL PRIMARY KEY,
		req_date  DATE NOT NULL,
		kind      TEXT NOT NULL,
		amount    DOUBLE PRECISION NOT NULL,
		reason    TEXT NOT NULL DEFAULT '',
		proof_ref TEXT,
		status    TEXT NOT NULL DEFAULT 'PENDING'
	)`,
	`CREATE TABLE IF NOT EXISTS asset_allocations (
		id               BIGSERIAL PRIMARY KEY,
		asset_name       TEXT NOT NULL UNIQUE,
		allocated_amount DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quarterly_events (
		id         BIGSERIAL PRIMARY KEY,
		issued_at  TIMESTAMPTZ NOT NULL,
		status     TEXT NOT NULL DEFAULT 'ACTIVE',
		claimed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS notices (
		id           BIGSERIAL PRIMARY KEY,
		publish_time TIMESTAMPTZ NOT NULL,
		content      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           BIGSERIAL PRIMARY KEY,
		created_date DATE NOT NULL,
		content      TEXT NOT NULL,
		reply        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id          BIGSERIAL PRIMARY KEY,
		event_id    UUID NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		actor       TEXT NOT NULL,
		action      TEXT NOT NULL,
		subject     TEXT NOT NULL DEFAULT '',
		detail      TEXT NOT NULL DEFAULT ''
	)`,
}

// EnsureSchema creates the application tables when they don't exist yet.
// Statements are idempotent so repeated startups are safe.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
