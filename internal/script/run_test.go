package script

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frudas24/deskinject/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []event.Event
	failAt int
	err    error
}

// Simulate records ev and fails on the configured call.
func (r *recorder) Simulate(ev event.Event) error {
	r.events = append(r.events, ev)
	if r.failAt > 0 && len(r.events) == r.failAt {
		return r.err
	}
	return nil
}

// TestRun_ReplaysInOrder verifies every event reaches the simulator.
func TestRun_ReplaysInOrder(t *testing.T) {
	s, err := Parse([]byte(sample), 0)
	require.NoError(t, err)

	rec := &recorder{}
	res, err := Run(context.Background(), rec, s)
	require.NoError(t, err)
	assert.Equal(t, s.Events(), rec.events)
	assert.Equal(t, len(rec.events), res.Executed)
}

// TestRun_StopsAtFirstError verifies no retry and no further steps after a failure.
func TestRun_StopsAtFirstError(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - tap: KeyA\n  - tap: KeyB\n"), 0)
	require.NoError(t, err)

	boom := errors.New("boom")
	rec := &recorder{failAt: 2, err: boom}
	res, err := Run(context.Background(), rec, s)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step 0")
	assert.Equal(t, 1, res.Executed)
	assert.Len(t, rec.events, 2)
}

// TestRun_CancelDuringSleep verifies cancellation interrupts a pause.
func TestRun_CancelDuringSleep(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - sleep: 1m\n  - tap: KeyA\n"), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	rec := &recorder{}
	start := time.Now()
	_, err = Run(ctx, rec, s)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Empty(t, rec.events)
}

// TestRun_CancelledBeforeStart verifies nothing is injected for a done context.
func TestRun_CancelledBeforeStart(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - tap: KeyA\n"), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	_, err = Run(ctx, rec, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.events)
}
