package withdrawal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fundbook/pkg/platform/sentinel"
	"fundbook/pkg/platform/tx"
)

// PostgresStore persists requests in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, req Request) (Request, error) {
	query := `
		INSERT INTO requests (req_date, kind, amount, reason, proof_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	req.ReqDate = dateOnly(req.ReqDate)
	err := tx.Q(ctx, s.db).QueryRowContext(ctx, query,
		req.ReqDate, string(req.Kind), req.Amount, req.Reason, nullableString(req.ProofRef), string(req.Status),
	).Scan(&req.ID)
	if err != nil {
		return Request{}, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Request, error) {
	query := `
		SELECT id, req_date, kind, amount, reason, proof_ref, status
		FROM requests
		WHERE id = $1
	`
	req, err := scanRequest(tx.Q(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Request{}, sentinel.ErrNotFound
		}
		return Request{}, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) Update(ctx context.Context, req Request) error {
	query := `
		UPDATE requests
		SET amount = $2, reason = $3, status = $4
		WHERE id = $1
	`
	result, err := tx.Q(ctx, s.db).ExecContext(ctx, query, req.ID, req.Amount, req.Reason, string(req.Status))
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update request rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]Request, error) {
	query := `
		SELECT id, req_date, kind, amount, reason, proof_ref, status
		FROM requests
		WHERE status = 'PENDING'
		ORDER BY id ASC
	`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Request, error) {
	query := `
		SELECT id, req_date, kind, amount, reason, proof_ref, status
		FROM requests
		ORDER BY req_date DESC, id DESC
		LIMIT $1
	`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent requests: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (s *PostgresStore) SumPendingWithdrawalsInMonth(ctx context.Context, year int, month time.Month) (float64, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM requests
		WHERE kind = $1 AND status = 'PENDING' AND req_date >= $2 AND req_date < $3
	`
	var sum float64
	if err := tx.Q(ctx, s.db).QueryRowContext(ctx, query, string(KindWithdrawalReq), from, to).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum pending withdrawals in month: %w", err)
	}
	return sum, nil
}

type requestRow interface {
	Scan(dest ...any) error
}

func scanRequest(row requestRow) (Request, error) {
	var (
		req      Request
		kind     string
		status   string
		proofRef sql.NullString
	)
	if err := row.Scan(&req.ID, &req.ReqDate, &kind, &req.Amount, &req.Reason, &proofRef, &status); err != nil {
		return Request{}, err
	}
	req.Kind = RequestKind(kind)
	req.Status = Status(status)
	req.ProofRef = proofRef.String
	req.ReqDate = dateOnly(req.ReqDate)
	return req, nil
}

func scanRequests(rows *sql.Rows) ([]Request, error) {
	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return out, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
