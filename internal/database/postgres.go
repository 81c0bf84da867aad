package database

import (
	"context"
	"fmt"

	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// schemaTables are the tables the account and chat stores read from.
var schemaTables = []string{"app_users", "students", "chat_messages"}

// NewPostgresPool creates and validates a PostgreSQL connection pool.
// A database that has not been migrated yet is reported but not refused.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("PostgreSQL connected")

	missing, err := MissingTables(ctx, pool)
	if err != nil {
		log.Warn().Err(err).Msg("Could not inspect schema")
	} else if len(missing) > 0 {
		log.Warn().Strs("missing_tables", missing).Msg("Schema incomplete, run the migrate command")
	}

	return pool, nil
}

// MissingTables lists the store tables that do not exist in the connected database.
func MissingTables(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx,
		`SELECT t FROM unnest($1::text[]) AS t WHERE to_regclass('public.' || t) IS NULL ORDER BY t`,
		schemaTables)
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	missing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	return missing, nil
}
