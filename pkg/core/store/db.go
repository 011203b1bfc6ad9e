package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool    *pgxpool.Pool
	once    sync.Once
	initErr error
)

// InitDB opens the shared Postgres pool once. An empty url falls back to
// the DATABASE_URL environment variable.
func InitDB(ctx context.Context, url string) error {
	once.Do(func() {
		if url == "" {
			url = os.Getenv("DATABASE_URL")
		}
		if url == "" {
			initErr = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, err := pgxpool.ParseConfig(url)
		if err != nil {
			initErr = fmt.Errorf("failed to parse database config: %w", err)
			return
		}

		pool, initErr = pgxpool.NewWithConfig(ctx, config)
		if initErr == nil {
			initErr = pool.Ping(ctx)
		}
	})
	return initErr
}

// GetPool returns the shared pool, or nil before InitDB succeeds.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the shared pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
