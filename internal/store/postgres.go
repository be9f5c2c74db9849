package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Slot = (*PostgresSlot)(nil)

// PostgresSlot stores the entry as one row of the storage_slots table
// created by the database migrations.
// The pool belongs to database.Database and is not closed here.
type PostgresSlot struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresSlot wraps an existing pool.
func NewPostgresSlot(pool *pgxpool.Pool, key string) *PostgresSlot {
	return &PostgresSlot{pool: pool, key: key}
}

func (s *PostgresSlot) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value::text FROM storage_slots WHERE key = $1`, s.key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", s.key, err)
	}
	return data, nil
}

func (s *PostgresSlot) Put(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO storage_slots (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.key, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", s.key, err)
	}
	return nil
}

func (s *PostgresSlot) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM storage_slots WHERE key = $1`, s.key); err != nil {
		return fmt.Errorf("clearing slot %s: %w", s.key, err)
	}
	return nil
}

func (s *PostgresSlot) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresSlot) Close() error {
	return nil
}
