package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	zerolog "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/lendingdesk/court-search-service/common/config"
	"github.com/lendingdesk/court-search-service/common/redis"

	"github.com/rs/zerolog/log"
)

// DB provides access to the database and the Redis job store.
type DB struct {
	Pool  *pgxpool.Pool
	Redis *redis.RedisClient
}

// New creates a new DB instance
func New(pool *pgxpool.Pool, redis *redis.RedisClient) (*DB, error) {
	if pool == nil {
		return nil, errors.New("cannot use nil database pool")
	}
	return &DB{
		Pool:  pool,
		Redis: redis,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// SetupDatabase initializes the database connection
func SetupDatabase(ctx context.Context, cfg config.Config) (*DB, error) {
	config, err := pgxpool.ParseConfig(cfg.PgSql.ConnStr())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	// Configure connection pool for better performance and reliability
	config.MaxConns = 20                       // Maximum number of connections in the pool
	config.MinConns = 5                        // Minimum number of connections to maintain
	config.MaxConnLifetime = 30 * time.Minute  // Maximum lifetime of a connection
	config.MaxConnIdleTime = 5 * time.Minute   // Maximum idle time of a connection
	config.HealthCheckPeriod = 1 * time.Minute // How often to check connection health

	// Query tracing, minus the search_logs table. The zerolog hook
	// writes there on every log line, so tracing it would recurse.
	logger := zerolog.NewLogger(log.Logger)
	config.ConnConfig.Tracer = &FilteredTracer{
		inner: &tracelog.TraceLog{
			Logger:   logger,
			LogLevel: tracelog.LogLevelInfo,
		},
		skipTable: "search_logs",
	}

	pgsqlClient, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Test connection
	if err := pgsqlClient.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Redis client: %w", err)
	}

	dbConn, err := New(pgsqlClient, redisClient)
	if err != nil {
		return nil, fmt.Errorf("creating DB handler: %w", err)
	}

	return dbConn, nil
}
