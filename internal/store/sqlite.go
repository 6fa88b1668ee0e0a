package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tradefrontier/internal/game"
)

// SQLiteLedger keeps the scoreboard in a local SQLite database.
type SQLiteLedger struct {
	conn  *sqlx.DB
	limit int
}

type scoreRow struct {
	ID           string `db:"id"`
	CharterID    string `db:"charter_id"`
	RecordedAt   string `db:"recorded_at"`
	Day          int    `db:"day"`
	LocationName string `db:"location_name"`
	NetWorth     int    `db:"net_worth"`
	Money        int    `db:"money"`
	CargoJSON    string `db:"cargo_json"`
}

func OpenSQLiteLedger(path string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	l := &SQLiteLedger{conn: conn, limit: game.ScoreboardLimit}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

func (l *SQLiteLedger) Close() error {
	return l.conn.Close()
}

func (l *SQLiteLedger) migrate() error {
	_, err := l.conn.Exec(`
	CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		charter_id TEXT NOT NULL UNIQUE,
		recorded_at TEXT NOT NULL,
		day INTEGER NOT NULL,
		location_name TEXT NOT NULL,
		net_worth INTEGER NOT NULL,
		money INTEGER NOT NULL,
		cargo_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_net_worth ON scores(net_worth DESC, recorded_at);
	`)
	return err
}

func (l *SQLiteLedger) RecordScore(ctx context.Context, entry game.ScoreEntry) error {
	cargo, err := json.Marshal(nonNilCargo(entry.Cargo))
	if err != nil {
		return fmt.Errorf("encode cargo: %w", err)
	}
	row := scoreRow{
		ID:           entry.ID,
		CharterID:    entry.CharterID,
		RecordedAt:   entry.Timestamp.UTC().Format(time.RFC3339Nano),
		Day:          entry.Day,
		LocationName: entry.LocationName,
		NetWorth:     entry.NetWorth,
		Money:        entry.Money,
		CargoJSON:    string(cargo),
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CharterID == "" {
		row.CharterID = row.ID
	}

	tx, err := l.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `INSERT OR IGNORE INTO scores
		(id, charter_id, recorded_at, day, location_name, net_worth, money, cargo_json)
		VALUES (:id, :charter_id, :recorded_at, :day, :location_name, :net_worth, :money, :cargo_json)`, row); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE id NOT IN (
		SELECT id FROM scores ORDER BY net_worth DESC, recorded_at ASC LIMIT ?)`, l.limit); err != nil {
		return fmt.Errorf("prune scores: %w", err)
	}
	return tx.Commit()
}

func (l *SQLiteLedger) TopScores(ctx context.Context, limit int) ([]game.ScoreEntry, error) {
	if limit <= 0 || limit > l.limit {
		limit = l.limit
	}
	var rows []scoreRow
	if err := l.conn.SelectContext(ctx, &rows, `SELECT id, charter_id, recorded_at, day, location_name, net_worth, money, cargo_json
		FROM scores ORDER BY net_worth DESC, recorded_at ASC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	out := make([]game.ScoreEntry, 0, len(rows))
	for _, r := range rows {
		e := game.ScoreEntry{
			ID:           r.ID,
			CharterID:    r.CharterID,
			Day:          r.Day,
			LocationName: r.LocationName,
			NetWorth:     r.NetWorth,
			Money:        r.Money,
			Cargo:        map[string]int{},
		}
		if ts, err := time.Parse(time.RFC3339Nano, r.RecordedAt); err == nil {
			e.Timestamp = ts
		}
		if err := json.Unmarshal([]byte(r.CargoJSON), &e.Cargo); err != nil {
			return nil, fmt.Errorf("decode cargo: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
