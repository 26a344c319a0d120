// Package sinks provides concrete destinations for ingestion progress events.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/progress"
)

// LogSink emits structured logs for ingestion progress. It is the default
// operator surface for the CLI.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.String("run_id", evt.RunUUID().String()),
			zap.String("stage", string(evt.Stage)),
		}
		if evt.Phase != "" {
			fields = append(fields,
				zap.String("phase", string(evt.Phase)),
				zap.Int64("done", evt.Done),
				zap.Int64("total", evt.Total),
			)
		}
		if evt.Dur > 0 {
			fields = append(fields, zap.Duration("dur", evt.Dur))
		}
		if evt.Note != "" {
			fields = append(fields, zap.String("note", evt.Note))
		}
		s.logger.Info("ingest progress", fields...)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
