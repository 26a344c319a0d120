// Package progress defines the event structures emitted by the ingestion
// pipeline for operator visibility. Events carry no correctness weight:
// dropping every one of them changes nothing about what gets persisted.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart Stage = "RUN_START"
	StageBatch    Stage = "BATCH"
	StageRunDone  Stage = "RUN_DONE"
	StageRunError Stage = "RUN_ERROR"
)

// Phase labels which part of the pipeline a batch event belongs to.
type Phase string

// Pipeline phases reported by batch events.
const (
	PhaseRows        Phase = "rows"
	PhaseOccupations Phase = "occupations"
	PhaseMetros      Phase = "metros"
	PhaseFacts       Phase = "facts"
)

// Event captures a single milestone of ingestion progress.
type Event struct {
	// RunID uniquely identifies an ingestion run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle or batch milestone occurred.
	Stage Stage
	// Phase scopes batch events to a pipeline phase.
	Phase Phase
	// Done is the cumulative number of items processed in the phase.
	Done int64
	// Delta is the number of items in this batch alone.
	Delta int64
	// Total is the phase size, when known (0 otherwise).
	Total int64
	// Dur captures wall time for run completions.
	Dur time.Duration
	// Note lets emitters attach low-volume context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError:
	case StageBatch:
		if e.Phase == "" {
			return errors.New("batch event requires phase")
		}
		if e.Done < 0 {
			return errors.New("done must be >= 0")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID for logs.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
