package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Metadata is the single-row data-vintage tracker. Exactly one logical row
// exists (enforced by a CHECK (id = 1) constraint); it is overwritten,
// never multiplied.
type Metadata struct {
	ID             int
	DataPeriod     string
	BLSReleaseDate *time.Time
	LastIngestedAt time.Time
	LastCheckedAt  time.Time
	RecordCount    *int64
	SourceURL      *string
	SourceSHA256   *string
	RunID          *string
}

// DefaultMetadata is the fallback snapshot used when the metadata table
// does not exist yet. Values match the first published data load.
func DefaultMetadata(now time.Time) Metadata {
	release := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	count := int64(141164)
	return Metadata{
		ID:             1,
		DataPeriod:     "May 2024",
		BLSReleaseDate: &release,
		LastIngestedAt: now,
		LastCheckedAt:  now,
		RecordCount:    &count,
	}
}

// GetMetadata returns the current data vintage. A missing table or empty
// row means "no prior state" and yields the hardcoded default, not an
// error. Transient errors are retried with linear backoff.
func (s *Store) GetMetadata(ctx context.Context) (Metadata, error) {
	var meta Metadata
	err := s.withRetry(ctx, func() error {
		row := s.db.QueryRow(ctx, `
			SELECT id, data_period, bls_release_date, last_ingested_at,
				last_checked_at, record_count, source_url, source_sha256, run_id
			FROM data_metadata WHERE id = 1`)
		return row.Scan(
			&meta.ID,
			&meta.DataPeriod,
			&meta.BLSReleaseDate,
			&meta.LastIngestedAt,
			&meta.LastCheckedAt,
			&meta.RecordCount,
			&meta.SourceURL,
			&meta.SourceSHA256,
			&meta.RunID,
		)
	})
	if err != nil {
		if isUndefinedTable(err) || errors.Is(err, pgx.ErrNoRows) {
			return DefaultMetadata(time.Now().UTC()), nil
		}
		return Metadata{}, fmt.Errorf("get data metadata: %w", err)
	}
	return meta, nil
}

// TouchLastChecked bumps the freshness-check timestamp.
func (s *Store) TouchLastChecked(ctx context.Context) error {
	err := s.withRetry(ctx, func() error {
		_, execErr := s.db.Exec(ctx, `UPDATE data_metadata SET last_checked_at = NOW() WHERE id = 1`)
		return execErr
	})
	if err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		return fmt.Errorf("touch last checked: %w", err)
	}
	return nil
}

// MetadataUpdate carries the fields written after a successful ingestion.
type MetadataUpdate struct {
	DataPeriod     string
	BLSReleaseDate *time.Time
	RecordCount    int64
	SourceURL      string
	SourceSHA256   string
	RunID          string
}

// UpdateMetadata overwrites the singleton row after an ingestion run.
func (s *Store) UpdateMetadata(ctx context.Context, upd MetadataUpdate) error {
	err := s.withRetry(ctx, func() error {
		_, execErr := s.db.Exec(ctx, `
			INSERT INTO data_metadata (
				id, data_period, bls_release_date, record_count, source_url,
				source_sha256, run_id, last_ingested_at, last_checked_at
			) VALUES (1, $1, $2, $3, $4, $5, $6, NOW(), NOW())
			ON CONFLICT (id) DO UPDATE SET
				data_period = EXCLUDED.data_period,
				bls_release_date = EXCLUDED.bls_release_date,
				record_count = EXCLUDED.record_count,
				source_url = EXCLUDED.source_url,
				source_sha256 = EXCLUDED.source_sha256,
				run_id = EXCLUDED.run_id,
				last_ingested_at = NOW(),
				last_checked_at = NOW()`,
			upd.DataPeriod,
			upd.BLSReleaseDate,
			upd.RecordCount,
			upd.SourceURL,
			upd.SourceSHA256,
			upd.RunID,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("update data metadata: %w", err)
	}
	return nil
}
