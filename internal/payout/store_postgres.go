package payout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fundbook/pkg/platform/sentinel"
	"fundbook/pkg/platform/tx"
)

// PostgresStore persists claim-window events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, event Event) (Event, error) {
	query := `
		INSERT INTO quarterly_events (issued_at, status, claimed_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := tx.Q(ctx, s.db).QueryRowContext(ctx, query,
		event.IssuedAt, string(event.Status), event.ClaimedAt,
	).Scan(&event.ID)
	if err != nil {
		return Event{}, fmt.Errorf("insert quarterly event: %w", err)
	}
	return event, nil
}

func (s *PostgresStore) Latest(ctx context.Context) (Event, error) {
	query := `
		SELECT id, issued_at, status, claimed_at
		FROM quarterly_events
		ORDER BY id DESC
		LIMIT 1
	`
	var (
		event     Event
		status    string
		claimedAt sql.NullTime
	)
	err := tx.Q(ctx, s.db).QueryRowContext(ctx, query).Scan(&event.ID, &event.IssuedAt, &status, &claimedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, sentinel.ErrNotFound
		}
		return Event{}, fmt.Errorf("get latest quarterly event: %w", err)
	}
	event.Status = EventStatus(status)
	if claimedAt.Valid {
		event.ClaimedAt = &claimedAt.Time
	}
	return event, nil
}

func (s *PostgresStore) Update(ctx context.Context, event Event) error {
	query := `
		UPDATE quarterly_events
		SET status = $2, claimed_at = $3
		WHERE id = $1
	`
	result, err := tx.Q(ctx, s.db).ExecContext(ctx, query, event.ID, string(event.Status), event.ClaimedAt)
	if err != nil {
		return fmt.Errorf("update quarterly event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update quarterly event rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ExpireActive(ctx context.Context) (int, error) {
	query := `UPDATE quarterly_events SET status = 'EXPIRED' WHERE status = 'ACTIVE'`
	result, err := tx.Q(ctx, s.db).ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("expire active quarterly events: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire active rows affected: %w", err)
	}
	return int(rows), nil
}
