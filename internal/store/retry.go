package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes retried on the lightweight read/metadata paths.
// The transactional ingestion path never retries: any error there aborts
// and rolls back the whole run.
const (
	codeTooManyConnections  = "53300"
	codeSerializationFailed = "40001"
	codeUndefinedTable      = "42P01"
)

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeTooManyConnections || pgErr.Code == codeSerializationFailed
	}
	return false
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable
}

// withRetry runs fn up to s.retryAttempts times with linear backoff between
// tries (backoff, 2*backoff, ...). Only transient errors are retried.
func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == s.retryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryBackoff * time.Duration(attempt)):
		}
	}
	return err
}
