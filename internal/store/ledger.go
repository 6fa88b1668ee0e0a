package store

import (
	"context"
	"fmt"

	"tradefrontier/internal/config"
	"tradefrontier/internal/db"
	"tradefrontier/internal/game"
)

// OpenLedger builds the score ledger named by cfg. The returned close func is
// never nil.
func OpenLedger(ctx context.Context, cfg config.Config) (game.ScoreLedger, func(), error) {
	switch cfg.ScoreBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		if err := db.EnsureScoreSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		return NewPostgresLedger(pool), pool.Close, nil
	case config.BackendSQLite:
		l, err := OpenSQLiteLedger(cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		return l, func() { _ = l.Close() }, nil
	case config.BackendFile, "":
		return NewFileLedger(cfg.DataDir), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown score backend %q", cfg.ScoreBackend)
	}
}
