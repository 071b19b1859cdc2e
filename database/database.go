// Package database opens the Postgres pool and applies schema migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"redline-backend/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, errors.New("database url is empty")
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Postgres connection established")
	return pool, nil
}

// migrationURL rewrites a postgres:// url to the scheme the pgx/v5 migrate driver registers
func migrationURL(connString string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(connString, prefix) {
			return "pgx5://" + strings.TrimPrefix(connString, prefix)
		}
	}
	return connString
}
