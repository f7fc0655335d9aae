package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"elasticroute-client/internal/platform/db"
	"elasticroute-client/internal/ports"
)

// Open picks a solution store from dsn: postgres:// and postgresql:// use
// Postgres, redis:// and rediss:// use Redis, anything else is a SQLite
// file path. SQL schemas are created if missing. The returned func closes
// the underlying connection.
func Open(ctx context.Context, dsn string, ttl time.Duration) (ports.SolutionStore, func() error, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		conn, err := db.Open(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open solution store: %w", err)
		}
		if err := InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open solution store: %w", err)
		}
		return NewPostgresSolutionStore(conn), conn.Close, nil

	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		s, err := NewRedisSolutionStoreFromURL(ctx, dsn, ttl)
		if err != nil {
			return nil, nil, fmt.Errorf("open solution store: %w", err)
		}
		return s, s.Close, nil

	default:
		conn, err := db.OpenSqlite(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open solution store: %w", err)
		}
		if err := InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open solution store: %w", err)
		}
		return NewSqliteSolutionStore(conn), conn.Close, nil
	}
}
