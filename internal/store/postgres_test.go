package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tradefrontier/internal/db"
)

func connectForTest(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureScoreSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
