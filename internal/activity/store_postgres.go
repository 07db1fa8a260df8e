package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
)

// PostgresStore persists activity bookkeeping in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema creates the tables this store needs. Called from wiring; the wallet
// owns its schema and has no separate migration tooling.
func (s *PostgresStore) Schema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS activities (
	id            TEXT PRIMARY KEY,
	error         TEXT NOT NULL DEFAULT '',
	authorized_at TIMESTAMPTZ,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS interaction_stats (
	subject     TEXT NOT NULL,
	counterpart TEXT NOT NULL,
	kind        TEXT NOT NULL,
	count       BIGINT NOT NULL DEFAULT 0,
	last_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (subject, counterpart, kind)
);`)
	if err != nil {
		return fmt.Errorf("create activity schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertError(ctx context.Context, id, message string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO activities (id, error, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET error = $2, updated_at = $3`, id, message, at)
	if err != nil {
		return fmt.Errorf("upsert activity error: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertAuthorized(ctx context.Context, id string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO activities (id, authorized_at, updated_at) VALUES ($1, $2, $2)
ON CONFLICT (id) DO UPDATE SET authorized_at = $2, updated_at = $2`, id, at)
	if err != nil {
		return fmt.Errorf("upsert activity authorized: %w", err)
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, error, authorized_at, updated_at FROM activities WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Error, &rec.AuthorizedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) IncrementInteraction(ctx context.Context, subject, counterpart, kind string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO interaction_stats (subject, counterpart, kind, count, last_at) VALUES ($1, $2, $3, 1, $4)
ON CONFLICT (subject, counterpart, kind) DO UPDATE
SET count = interaction_stats.count + 1, last_at = $4`, subject, counterpart, kind, at)
	if err != nil {
		return fmt.Errorf("increment interaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Interaction(ctx context.Context, subject, counterpart, kind string) (*InteractionStat, error) {
	var stat InteractionStat
	err := s.pool.QueryRow(ctx, `
SELECT subject, counterpart, kind, count, last_at FROM interaction_stats
WHERE subject = $1 AND counterpart = $2 AND kind = $3`, subject, counterpart, kind).
		Scan(&stat.Subject, &stat.Counterpart, &stat.Kind, &stat.Count, &stat.LastAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load interaction stat: %w", err)
	}
	return &stat, nil
}
