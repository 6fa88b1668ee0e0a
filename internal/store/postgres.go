package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradefrontier/internal/game"
)

// PostgresLedger shares one scoreboard across every client of a database.
type PostgresLedger struct {
	pool  *pgxpool.Pool
	limit int
}

func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool, limit: game.ScoreboardLimit}
}

func (l *PostgresLedger) RecordScore(ctx context.Context, entry game.ScoreEntry) error {
	cargo, err := json.Marshal(nonNilCargo(entry.Cargo))
	if err != nil {
		return fmt.Errorf("encode cargo: %w", err)
	}
	id := entry.ID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin score tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO frontier.scores (id, charter_id, recorded_at, day, location_name, net_worth, money, cargo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (charter_id) DO NOTHING
	`, id, entry.CharterID, entry.Timestamp.UTC(), entry.Day, entry.LocationName, entry.NetWorth, entry.Money, cargo); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM frontier.scores
		WHERE id NOT IN (
			SELECT id FROM frontier.scores
			ORDER BY net_worth DESC, recorded_at ASC
			LIMIT $1
		)
	`, l.limit); err != nil {
		return fmt.Errorf("prune scores: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit score tx: %w", err)
	}
	return nil
}

func (l *PostgresLedger) TopScores(ctx context.Context, limit int) ([]game.ScoreEntry, error) {
	if limit <= 0 || limit > l.limit {
		limit = l.limit
	}
	rows, err := l.pool.Query(ctx, `
		SELECT id::text, charter_id, recorded_at, day, location_name, net_worth, money, cargo
		FROM frontier.scores
		ORDER BY net_worth DESC, recorded_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	out := make([]game.ScoreEntry, 0, limit)
	for rows.Next() {
		var (
			e     game.ScoreEntry
			cargo []byte
		)
		if err := rows.Scan(&e.ID, &e.CharterID, &e.Timestamp, &e.Day, &e.LocationName, &e.NetWorth, &e.Money, &cargo); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		e.Cargo = map[string]int{}
		if len(cargo) > 0 {
			if err := json.Unmarshal(cargo, &e.Cargo); err != nil {
				return nil, fmt.Errorf("decode cargo: %w", err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

func nonNilCargo(cargo map[string]int) map[string]int {
	if cargo == nil {
		return map[string]int{}
	}
	return cargo
}
