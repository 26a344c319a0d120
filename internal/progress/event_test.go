package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEventValidate(t *testing.T) {
	t.Parallel()

	runID := UUIDToBytes(uuid.New())
	now := time.Unix(1700000000, 0).UTC()

	tests := []struct {
		name    string
		evt     Event
		wantErr bool
	}{
		{"run start ok", Event{RunID: runID, TS: now, Stage: StageRunStart}, false},
		{"batch ok", Event{RunID: runID, TS: now, Stage: StageBatch, Phase: PhaseFacts, Done: 1000, Delta: 1000}, false},
		{"missing run id", Event{TS: now, Stage: StageRunStart}, true},
		{"missing timestamp", Event{RunID: runID, Stage: StageRunStart}, true},
		{"batch needs phase", Event{RunID: runID, TS: now, Stage: StageBatch}, true},
		{"batch negative done", Event{RunID: runID, TS: now, Stage: StageBatch, Phase: PhaseRows, Done: -1}, true},
		{"unknown stage", Event{RunID: runID, TS: now, Stage: "BOGUS"}, true},
		{"negative duration", Event{RunID: runID, TS: now, Stage: StageRunDone, Dur: -time.Second}, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.evt.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRunUUIDRoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	evt := Event{RunID: UUIDToBytes(id)}
	require.Equal(t, id, evt.RunUUID())
}
