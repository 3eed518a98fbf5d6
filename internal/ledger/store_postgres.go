package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fundbook/pkg/platform/tx"
)

// PostgresStore persists the ledger in PostgreSQL. The store is pure I/O;
// valuation and limit arithmetic live in the engine and services.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, t Transaction) (Transaction, error) {
	query := `
		INSERT INTO transactions (tx_date, kind, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	t.TxDate = DateOnly(t.TxDate)
	err := tx.Q(ctx, s.db).QueryRowContext(ctx, query,
		t.TxDate, string(t.Kind), t.Amount, t.Description,
	).Scan(&t.ID)
	if err != nil {
		return Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListAscending(ctx context.Context) ([]Transaction, error) {
	query := `
		SELECT id, tx_date, kind, amount, description
		FROM transactions
		ORDER BY tx_date ASC, id ASC
	`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Transaction, error) {
	query := `
		SELECT id, tx_date, kind, amount, description
		FROM transactions
		ORDER BY tx_date DESC, id DESC
		LIMIT $1
	`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *PostgresStore) SumKindInMonth(ctx context.Context, kind Kind, year int, month time.Month) (float64, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE kind = $1 AND tx_date >= $2 AND tx_date < $3
	`
	var sum float64
	if err := tx.Q(ctx, s.db).QueryRowContext(ctx, query, string(kind), from, to).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum %s in month: %w", kind, err)
	}
	return sum, nil
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var (
			t    Transaction
			kind string
		)
		if err := rows.Scan(&t.ID, &t.TxDate, &kind, &t.Amount, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = Kind(kind)
		t.TxDate = DateOnly(t.TxDate)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
