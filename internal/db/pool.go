package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

const scoreSchema = `
CREATE SCHEMA IF NOT EXISTS frontier;

CREATE TABLE IF NOT EXISTS frontier.scores (
	id            UUID PRIMARY KEY,
	charter_id    TEXT NOT NULL UNIQUE,
	recorded_at   TIMESTAMPTZ NOT NULL,
	day           INTEGER NOT NULL,
	location_name TEXT NOT NULL,
	net_worth     INTEGER NOT NULL,
	money         INTEGER NOT NULL,
	cargo         JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE INDEX IF NOT EXISTS idx_scores_net_worth ON frontier.scores (net_worth DESC, recorded_at);
`

// EnsureScoreSchema creates the scoreboard table when it is missing.
func EnsureScoreSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, scoreSchema); err != nil {
		return fmt.Errorf("migrate scores: %w", err)
	}
	return nil
}
