package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/oews"
)

// Snapshot is one ingestion run's worth of deduplicated entities and facts.
type Snapshot struct {
	Occupations []oews.Occupation
	Metros      []oews.Metro
	Facts       []oews.Fact
	DataYear    int
}

// LoadStats summarizes what a snapshot load wrote.
type LoadStats struct {
	Occupations  int
	Metros       int
	FactsWritten int
	FactsSkipped int
}

// ProgressFunc receives per-phase batch counters during a load. Purely for
// operator visibility; correctness never depends on it.
type ProgressFunc func(phase string, done, delta int64)

const (
	upsertOccupationSQL = `
		INSERT INTO occupations (occ_code, occ_title, occ_group, slug)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (occ_code) DO UPDATE SET
			occ_title = EXCLUDED.occ_title,
			occ_group = EXCLUDED.occ_group,
			slug = EXCLUDED.slug`

	upsertMetroSQL = `
		INSERT INTO metros (area_code, area_title, slug, state_abbr)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (area_code) DO UPDATE SET
			area_title = EXCLUDED.area_title,
			slug = EXCLUDED.slug,
			state_abbr = EXCLUDED.state_abbr`

	upsertFactSQL = `
		INSERT INTO salary_data (
			occupation_id, metro_id, tot_emp, h_mean, a_mean, a_median,
			a_pct10, a_pct25, a_pct75, a_pct90, dqs, is_indexable, data_year
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (occupation_id, metro_id) DO UPDATE SET
			tot_emp = EXCLUDED.tot_emp,
			h_mean = EXCLUDED.h_mean,
			a_mean = EXCLUDED.a_mean,
			a_median = EXCLUDED.a_median,
			a_pct10 = EXCLUDED.a_pct10,
			a_pct25 = EXCLUDED.a_pct25,
			a_pct75 = EXCLUDED.a_pct75,
			a_pct90 = EXCLUDED.a_pct90,
			dqs = EXCLUDED.dqs,
			is_indexable = EXCLUDED.is_indexable,
			data_year = EXCLUDED.data_year,
			updated_at = NOW()`
)

// LoadSnapshot persists a full run inside one transaction, in three phases:
// entity upserts keyed by source code, a full-table id readback (one query
// per table, not per row, to keep query volume off the small pool), then
// batched fact upserts keyed by (occupation_id, metro_id). Every write is
// an idempotent upsert, so re-running the same snapshot is safe; any error
// rolls the whole run back.
//
// The entity upserts regenerate slugs from current titles, so a title
// change between runs moves the published URL with no redirect from the
// old slug. Known behavior, flagged rather than changed.
func (s *Store) LoadSnapshot(ctx context.Context, snap Snapshot, batchSize int, report ProgressFunc) (LoadStats, error) {
	var stats LoadStats
	if batchSize <= 0 {
		batchSize = 1000
	}
	if report == nil {
		report = func(string, int64, int64) {}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("begin ingest transaction: %w", err)
	}
	// No-op after a successful commit.
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, occ := range snap.Occupations {
		if _, err := tx.Exec(ctx, upsertOccupationSQL, occ.Code, occ.Title, occ.Group, occ.Slug); err != nil {
			return stats, fmt.Errorf("upsert occupation %s: %w", occ.Code, err)
		}
	}
	stats.Occupations = len(snap.Occupations)
	report("occupations", int64(stats.Occupations), int64(stats.Occupations))

	for _, m := range snap.Metros {
		if _, err := tx.Exec(ctx, upsertMetroSQL, m.AreaCode, m.AreaTitle, m.Slug, m.StateAbbr); err != nil {
			return stats, fmt.Errorf("upsert metro %s: %w", m.AreaCode, err)
		}
	}
	stats.Metros = len(snap.Metros)
	report("metros", int64(stats.Metros), int64(stats.Metros))

	occIDs, err := readBackIDs(ctx, tx, `SELECT id, occ_code FROM occupations`)
	if err != nil {
		return stats, fmt.Errorf("read back occupation ids: %w", err)
	}
	metroIDs, err := readBackIDs(ctx, tx, `SELECT id, area_code FROM metros`)
	if err != nil {
		return stats, fmt.Errorf("read back metro ids: %w", err)
	}

	for start := 0; start < len(snap.Facts); start += batchSize {
		end := start + batchSize
		if end > len(snap.Facts) {
			end = len(snap.Facts)
		}
		for _, fact := range snap.Facts[start:end] {
			occID, okOcc := occIDs[fact.OccCode]
			metroID, okMetro := metroIDs[fact.AreaCode]
			if !okOcc || !okMetro {
				// Entity was filtered out earlier in the pipeline; not an error.
				stats.FactsSkipped++
				continue
			}
			if _, err := tx.Exec(ctx, upsertFactSQL,
				occID, metroID,
				fact.TotEmp, fact.HMean, fact.AMean, fact.AMedian,
				fact.APct10, fact.APct25, fact.APct75, fact.APct90,
				fact.Score, fact.Indexable, snap.DataYear,
			); err != nil {
				return stats, fmt.Errorf("upsert salary fact %s/%s: %w", fact.OccCode, fact.AreaCode, err)
			}
			stats.FactsWritten++
		}
		report("facts", int64(end), int64(end-start))
	}

	if err := tx.Commit(ctx); err != nil {
		return stats, fmt.Errorf("commit ingest transaction: %w", err)
	}

	s.logger.Info("snapshot loaded",
		zap.Int("occupations", stats.Occupations),
		zap.Int("metros", stats.Metros),
		zap.Int("facts_written", stats.FactsWritten),
		zap.Int("facts_skipped", stats.FactsSkipped),
	)
	return stats, nil
}

func readBackIDs(ctx context.Context, tx pgx.Tx, query string) (map[string]int64, error) {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var code string
		if err := rows.Scan(&id, &code); err != nil {
			return nil, err
		}
		ids[code] = id
	}
	return ids, rows.Err()
}
