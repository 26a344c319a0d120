package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	sha256hash "github.com/salaryscout/salaryscout/internal/hash/sha256"
	uuidgen "github.com/salaryscout/salaryscout/internal/id/uuid"
	"github.com/salaryscout/salaryscout/internal/oews"
	"github.com/salaryscout/salaryscout/internal/progress"
	"github.com/salaryscout/salaryscout/internal/store"
)

// Snapshotter is the slice of the store the pipeline writes through.
type Snapshotter interface {
	LoadSnapshot(ctx context.Context, snap store.Snapshot, batchSize int, report store.ProgressFunc) (store.LoadStats, error)
	UpdateMetadata(ctx context.Context, upd store.MetadataUpdate) error
}

// Clock stamps progress events and run durations.
type Clock interface {
	Now() time.Time
}

// Config describes one ingestion run.
type Config struct {
	File        string
	BatchSize   int
	DryRun      bool
	DryRunLimit int
	DataPeriod  string
	DataYear    int
	SourceURL   string
}

// Summary reports what one run did.
type Summary struct {
	RunID        string
	SourceSHA256 string
	RowsRead     int
	RowsAdmitted int
	RowsDropped  int
	Occupations  int
	Metros       int
	FactsWritten int
	FactsSkipped int
	Indexable    int
	Duration     time.Duration
	DryRun       bool
}

// Pipeline runs the spreadsheet-to-store ingestion flow. One instance is
// reusable across runs; each run is sequential and single-threaded against
// the shared connection pool.
type Pipeline struct {
	store   Snapshotter
	hasher  *sha256hash.Hasher
	ids     *uuidgen.Generator
	emitter progress.Emitter
	clock   Clock
	logger  *zap.Logger
}

// New wires a Pipeline.
func New(st Snapshotter, hasher *sha256hash.Hasher, ids *uuidgen.Generator, emitter progress.Emitter, clock Clock, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		store:   st,
		hasher:  hasher,
		ids:     ids,
		emitter: emitter,
		clock:   clock,
		logger:  logger,
	}
}

// Run executes one ingestion run. Dry runs stop after the configured number
// of admitted rows and never touch the database; everything else flows
// through one transaction in the loader and is rolled back on any error.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (Summary, error) {
	start := p.clock.Now()

	rawRunID, err := p.ids.NewRawID()
	if err != nil {
		return Summary{}, fmt.Errorf("allocate run id: %w", err)
	}
	runID := progress.UUIDToBytes(rawRunID)
	summary := Summary{RunID: rawRunID.String(), DryRun: cfg.DryRun}

	p.emit(ctx, progress.Event{RunID: runID, TS: p.clock.Now(), Stage: progress.StageRunStart, Note: cfg.File})

	digest, err := p.hasher.HashFile(cfg.File)
	if err != nil {
		return summary, p.fail(ctx, runID, start, fmt.Errorf("hash source file: %w", err))
	}
	summary.SourceSHA256 = digest

	rows, err := ReadSource(cfg.File)
	if err != nil {
		return summary, p.fail(ctx, runID, start, err)
	}
	summary.RowsRead = len(rows.Data)

	adapter, err := oews.DetectAdapter(rows.Header)
	if err != nil {
		return summary, p.fail(ctx, runID, start, fmt.Errorf("inspect header row: %w", err))
	}

	dedup := oews.NewDeduplicator()
	facts := make([]oews.Fact, 0, len(rows.Data))
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	for _, raw := range rows.Data {
		if err := ctx.Err(); err != nil {
			return summary, p.fail(ctx, runID, start, err)
		}

		src := adapter(rows.CellMap(raw))
		if !oews.Detailed(src) {
			summary.RowsDropped++
			continue
		}
		rec, ok := oews.Normalize(src)
		if !ok {
			summary.RowsDropped++
			continue
		}

		dedup.Observe(rec)
		fact := oews.NewFact(rec)
		if fact.Indexable {
			summary.Indexable++
		}
		facts = append(facts, fact)
		summary.RowsAdmitted++

		if summary.RowsAdmitted%batchSize == 0 {
			p.emitBatch(ctx, runID, progress.PhaseRows, int64(summary.RowsAdmitted), int64(batchSize), int64(len(rows.Data)))
		}
		if cfg.DryRun && cfg.DryRunLimit > 0 && summary.RowsAdmitted >= cfg.DryRunLimit {
			break
		}
	}
	if rem := summary.RowsAdmitted % batchSize; rem != 0 {
		p.emitBatch(ctx, runID, progress.PhaseRows, int64(summary.RowsAdmitted), int64(rem), int64(len(rows.Data)))
	}

	if err := dedup.SlugCollisions(); err != nil {
		return summary, p.fail(ctx, runID, start, err)
	}

	summary.Occupations = len(dedup.Occupations())
	summary.Metros = len(dedup.Metros())

	if cfg.DryRun {
		summary.Duration = p.clock.Now().Sub(start)
		p.logger.Info("dry run complete",
			zap.String("run_id", summary.RunID),
			zap.Int("rows_admitted", summary.RowsAdmitted),
			zap.Int("occupations", summary.Occupations),
			zap.Int("metros", summary.Metros),
			zap.Int("indexable", summary.Indexable),
		)
		p.emit(ctx, progress.Event{RunID: runID, TS: p.clock.Now(), Stage: progress.StageRunDone, Dur: summary.Duration, Note: "dry run"})
		return summary, nil
	}

	snap := store.Snapshot{
		Occupations: dedup.Occupations(),
		Metros:      dedup.Metros(),
		Facts:       facts,
		DataYear:    cfg.DataYear,
	}
	stats, err := p.store.LoadSnapshot(ctx, snap, batchSize, func(phase string, done, delta int64) {
		p.emitBatch(ctx, runID, progress.Phase(phase), done, delta, 0)
	})
	if err != nil {
		return summary, p.fail(ctx, runID, start, err)
	}
	summary.FactsWritten = stats.FactsWritten
	summary.FactsSkipped = stats.FactsSkipped

	if err := p.store.UpdateMetadata(ctx, store.MetadataUpdate{
		DataPeriod:   cfg.DataPeriod,
		RecordCount:  int64(stats.FactsWritten),
		SourceURL:    cfg.SourceURL,
		SourceSHA256: digest,
		RunID:        summary.RunID,
	}); err != nil {
		return summary, p.fail(ctx, runID, start, fmt.Errorf("record run metadata: %w", err))
	}

	summary.Duration = p.clock.Now().Sub(start)
	p.logger.Info("ingestion complete",
		zap.String("run_id", summary.RunID),
		zap.Int("rows_read", summary.RowsRead),
		zap.Int("rows_admitted", summary.RowsAdmitted),
		zap.Int("facts_written", summary.FactsWritten),
		zap.Int("facts_skipped", summary.FactsSkipped),
		zap.Int("indexable", summary.Indexable),
		zap.Duration("duration", summary.Duration),
	)
	p.emit(ctx, progress.Event{RunID: runID, TS: p.clock.Now(), Stage: progress.StageRunDone, Dur: summary.Duration})
	return summary, nil
}

func (p *Pipeline) emit(ctx context.Context, evt progress.Event) {
	if p.emitter != nil {
		p.emitter.Emit(ctx, evt)
	}
}

func (p *Pipeline) emitBatch(ctx context.Context, runID [16]byte, phase progress.Phase, done, delta, total int64) {
	p.emit(ctx, progress.Event{
		RunID: runID,
		TS:    p.clock.Now(),
		Stage: progress.StageBatch,
		Phase: phase,
		Done:  done,
		Delta: delta,
		Total: total,
	})
}

func (p *Pipeline) fail(ctx context.Context, runID [16]byte, start time.Time, err error) error {
	p.emit(ctx, progress.Event{
		RunID: runID,
		TS:    p.clock.Now(),
		Stage: progress.StageRunError,
		Dur:   p.clock.Now().Sub(start),
		Note:  err.Error(),
	})
	return err
}
