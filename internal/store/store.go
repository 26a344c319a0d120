// Package store provides the Postgres persistence layer: schema setup, the
// transactional snapshot loader, the singleton data-vintage metadata row,
// and the read query surface consumed by the page-serving API.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// DB is the slice of pgxpool.Pool the store uses. pgxmock implements the
// same surface, so tests can stand in for the pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Config controls the Postgres connection pool. The pool is capped small on
// purpose: ingestion shares a connection budget with page rendering.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	RetryAttempts   int
	RetryBackoff    time.Duration
}

// Store owns a database handle. Constructed once by the caller and passed
// in; there is no package-level pool.
type Store struct {
	db            DB
	logger        *zap.Logger
	retryAttempts int
	retryBackoff  time.Duration
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newStore(pool, cfg, logger), nil
}

// NewWithDB constructs a Store from an existing handle (primarily for
// testing with pgxmock).
func NewWithDB(db DB, cfg Config, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle is required")
	}
	return newStore(db, cfg, logger), nil
}

func newStore(db DB, cfg Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Store{
		db:            db,
		logger:        logger,
		retryAttempts: attempts,
		retryBackoff:  backoff,
	}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}
