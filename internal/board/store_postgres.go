package board

import (
	"context"
	"database/sql"
	"fmt"

	"fundbook/pkg/platform/sentinel"
	"fundbook/pkg/platform/tx"
)

// PostgresStore persists notices and messages in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertNotice(ctx context.Context, n Notice) (Notice, error) {
	query := `
		INSERT INTO notices (publish_time, content)
		VALUES ($1, $2)
		RETURNING id
	`
	err := tx.Q(ctx, s.db).QueryRowContext(ctx, query, n.PublishTime, n.Content).Scan(&n.ID)
	if err != nil {
		return Notice{}, fmt.Errorf("insert notice: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) DeleteNotice(ctx context.Context, id int64) error {
	result, err := tx.Q(ctx, s.db).ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notice rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RecentNotices(ctx context.Context, limit int) ([]Notice, error) {
	query := `
		SELECT id, publish_time, content
		FROM notices
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	var out []Notice
	for rows.Next() {
		var n Notice
		if err := rows.Scan(&n.ID, &n.PublishTime, &n.Content); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notices: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) InsertMessage(ctx context.Context, m Message) (Message, error) {
	query := `
		INSERT INTO messages (created_date, content, reply)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var reply sql.NullString
	if m.Reply != nil {
		reply = sql.NullString{String: *m.Reply, Valid: true}
	}
	err := tx.Q(ctx, s.db).QueryRowContext(ctx, query, m.CreatedDate, m.Content, reply).Scan(&m.ID)
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) SetReply(ctx context.Context, id int64, reply string) error {
	result, err := tx.Q(ctx, s.db).ExecContext(ctx, `UPDATE messages SET reply = $1 WHERE id = $2`, reply, id)
	if err != nil {
		return fmt.Errorf("set message reply: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set message reply rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	query := `
		SELECT id, created_date, content, reply
		FROM messages
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			m     Message
			reply sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.CreatedDate, &m.Content, &reply); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if reply.Valid {
			m.Reply = &reply.String
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}
