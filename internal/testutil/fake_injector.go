// Package testutil provides test doubles for the input path.
package testutil

import (
	"sync"

	"github.com/frudas24/deskinject/internal/wininput"
)

// Call records a single submitted record. Exactly one of Mouse or Keyboard is set.
type Call struct {
	Mouse    *wininput.MouseInput
	Keyboard *wininput.KeyboardInput
}

// FakeInjector implements wininput.Injector and records calls for tests.
type FakeInjector struct {
	mu    sync.Mutex
	Calls []Call
	// FailAt makes the call with this 1-based sequence number fail. Zero never fails.
	FailAt int
	// Err is returned for the failing call; wininput.ErrRejected when nil.
	Err error
	// Width and Height are reported by Screen.
	Width  int32
	Height int32
}

// Ensure FakeInjector implements the interface.
var _ wininput.Injector = (*FakeInjector)(nil)

// SendMouse records a mouse record.
func (f *FakeInjector) SendMouse(in wininput.MouseInput) error {
	return f.record(Call{Mouse: &in})
}

// SendKeyboard records a keyboard record.
func (f *FakeInjector) SendKeyboard(in wininput.KeyboardInput) error {
	return f.record(Call{Keyboard: &in})
}

// Screen reports the configured virtual-desktop size.
func (f *FakeInjector) Screen() (int32, int32) {
	return f.Width, f.Height
}

// Snapshot returns a copy of the recorded calls.
func (f *FakeInjector) Snapshot() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.Calls))
	copy(out, f.Calls)
	return out
}

// record appends the call, or fails it when it is the FailAt call. Failed calls
// are still recorded so tests can see the attempt.
func (f *FakeInjector) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, c)
	if f.FailAt > 0 && len(f.Calls) == f.FailAt {
		if f.Err != nil {
			return f.Err
		}
		return wininput.ErrRejected
	}
	return nil
}
