package script

import (
	"context"
	"fmt"
	"time"

	"github.com/frudas24/deskinject/internal/event"
)

// Simulator injects one event.
type Simulator interface {
	Simulate(ev event.Event) error
}

// Result summarizes a replay.
type Result struct {
	Executed int
}

// Run replays s through sim in order. It stops at the first simulate error and
// checks ctx before every action and during sleeps.
func Run(ctx context.Context, sim Simulator, s Script) (Result, error) {
	var res Result
	for _, a := range s.Actions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if a.Event == nil {
			if err := sleep(ctx, a.Sleep); err != nil {
				return res, err
			}
			continue
		}
		if err := sim.Simulate(*a.Event); err != nil {
			return res, fmt.Errorf("step %d: %w", a.Step, err)
		}
		res.Executed++
	}
	return res, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
