package allocation

import (
	"context"
	"database/sql"
	"fmt"

	"fundbook/pkg/platform/tx"
)

// PostgresStore persists allocations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, alloc Allocation) (Allocation, error) {
	query := `
		INSERT INTO asset_allocations (asset_name, allocated_amount)
		VALUES ($1, $2)
		ON CONFLICT (asset_name) DO UPDATE SET
			allocated_amount = EXCLUDED.allocated_amount
		RETURNING id
	`
	err := tx.Q(ctx, s.db).QueryRowContext(ctx, query, alloc.Asset, alloc.Amount).Scan(&alloc.ID)
	if err != nil {
		return Allocation{}, fmt.Errorf("upsert allocation: %w", err)
	}
	return alloc, nil
}

func (s *PostgresStore) Delete(ctx context.Context, asset string) error {
	_, err := tx.Q(ctx, s.db).ExecContext(ctx, `DELETE FROM asset_allocations WHERE asset_name = $1`, asset)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Allocation, error) {
	query := `
		SELECT id, asset_name, allocated_amount
		FROM asset_allocations
		ORDER BY id ASC
	`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []Allocation
	for rows.Next() {
		var alloc Allocation
		if err := rows.Scan(&alloc.ID, &alloc.Asset, &alloc.Amount); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SumExcluding(ctx context.Context, asset string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(allocated_amount), 0)
		FROM asset_allocations
		WHERE asset_name <> $1
	`
	var sum float64
	if err := tx.Q(ctx, s.db).QueryRowContext(ctx, query, asset).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum allocations excluding %s: %w", asset, err)
	}
	return sum, nil
}
