package progress

import "context"

// Sink consumes batches of progress events. Implementations must be safe for
// repeated calls and honor ctx deadlines.
type Sink interface {
	Consume(ctx context.Context, batch []Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events; Broadcaster satisfies this interface
// so the pipeline stays agnostic about where events land.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
}

// Broadcaster fans each event out to every registered sink synchronously.
// Ingestion is sequential and low-volume, so no buffering is needed; a sink
// error is swallowed after the first delivery attempt because progress is
// cosmetic.
type Broadcaster struct {
	sinks []Sink
}

// NewBroadcaster wires the given sinks.
func NewBroadcaster(sinks ...Sink) *Broadcaster {
	return &Broadcaster{sinks: sinks}
}

// Emit delivers the event to every sink.
func (b *Broadcaster) Emit(ctx context.Context, evt Event) {
	batch := []Event{evt}
	for _, s := range b.sinks {
		_ = s.Consume(ctx, batch) //nolint:errcheck // progress is best-effort
	}
}

// Close closes every sink, returning the first error encountered.
func (b *Broadcaster) Close(ctx context.Context) error {
	var first error
	for _, s := range b.sinks {
		if err := s.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
