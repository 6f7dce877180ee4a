// Package simulate turns abstract input events into SendInput records.
//
// A Dispatcher holds no mutable state; each Simulate call builds its records from
// scratch and may run concurrently with others. Concurrent callers still share one
// physical pointer and keyboard, so ordering between them is theirs to enforce.
package simulate

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/frudas24/deskinject/internal/event"
	"github.com/frudas24/deskinject/internal/keycodes"
	"github.com/frudas24/deskinject/internal/monitor"
	"github.com/frudas24/deskinject/internal/wininput"
)

// ErrSimulate is the single failure kind: the requested input was not injected.
var ErrSimulate = errors.New("could not simulate event")

// ScreenSize reports the virtual-desktop size in pixels; zero means the query failed.
type ScreenSize func() (width, height int32)

// KeyLookup resolves an abstract key to a virtual-key code.
type KeyLookup func(event.Key) (uint16, bool)

// ScanLookup resolves a virtual-key code to a scan code.
type ScanLookup func(uint16) (uint16, bool)

// Dispatcher maps events onto an injector.
type Dispatcher struct {
	injector   wininput.Injector
	screen     ScreenSize
	keyToCode  KeyLookup
	codeToScan ScanLookup
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithKeyLookup replaces the key to virtual-key table.
func WithKeyLookup(fn KeyLookup) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.keyToCode = fn
		}
	}
}

// WithScanLookup replaces the virtual-key to scan code table.
func WithScanLookup(fn ScanLookup) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.codeToScan = fn
		}
	}
}

// New returns a Dispatcher submitting records through injector.
func New(injector wininput.Injector, screen ScreenSize, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		injector:   injector,
		screen:     screen,
		keyToCode:  keycodes.CodeFromKey,
		codeToScan: keycodes.ScanFromCode,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Platform returns a Dispatcher over the system injector and virtual-desktop metrics.
func Platform(opts ...Option) (*Dispatcher, error) {
	injector, err := wininput.NewInjector()
	if err != nil {
		return nil, err
	}
	return New(injector, monitor.VirtualSize, opts...), nil
}

var platform = sync.OnceValues(func() (*Dispatcher, error) {
	return Platform()
})

// Simulate injects ev through the platform injector.
func Simulate(ev event.Event) error {
	d, err := platform()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSimulate, err)
	}
	return d.Simulate(ev)
}

// Simulate injects ev. Every error wraps ErrSimulate.
func (d *Dispatcher) Simulate(ev event.Event) error {
	switch ev.Kind {
	case event.KindKeyPress:
		return d.key(ev.Key, wininput.KeyDown)
	case event.KindKeyRelease:
		return d.key(ev.Key, wininput.KeyUp)
	case event.KindButtonPress:
		return d.button(ev.Button, true)
	case event.KindButtonRelease:
		return d.button(ev.Button, false)
	case event.KindWheel:
		return d.wheel(ev.DeltaX, ev.DeltaY)
	case event.KindMouseMove:
		return d.move(ev.X, ev.Y)
	default:
		return fmt.Errorf("%w: unsupported event %s", ErrSimulate, ev.Kind)
	}
}

// key resolves both codes before building the record.
func (d *Dispatcher) key(k event.Key, flags wininput.KeyFlags) error {
	vk, ok := d.keyToCode(k)
	if !ok {
		return fmt.Errorf("%w: key %s has no virtual key", ErrSimulate, k)
	}
	scan, ok := d.codeToScan(vk)
	if !ok {
		return fmt.Errorf("%w: virtual key 0x%02X has no scan code", ErrSimulate, vk)
	}
	return d.sendKeyboard(wininput.KeyboardInput{Flags: flags, VirtualKey: vk, ScanCode: scan})
}

// button picks the flag pair for b. Extended buttons carry their id in Data.
func (d *Dispatcher) button(b event.Button, down bool) error {
	in := wininput.MouseInput{}
	switch b.Kind {
	case event.ButtonLeft:
		in.Flags = pick(down, wininput.MouseLeftDown, wininput.MouseLeftUp)
	case event.ButtonMiddle:
		in.Flags = pick(down, wininput.MouseMiddleDown, wininput.MouseMiddleUp)
	case event.ButtonRight:
		in.Flags = pick(down, wininput.MouseRightDown, wininput.MouseRightUp)
	case event.ButtonForward:
		in.Flags = pick(down, wininput.MouseXDown, wininput.MouseXUp)
		in.Data = wininput.XButton1
	case event.ButtonBackward:
		in.Flags = pick(down, wininput.MouseXDown, wininput.MouseXUp)
		in.Data = wininput.XButton2
	case event.ButtonUnknown:
		in.Flags = pick(down, wininput.MouseXDown, wininput.MouseXUp)
		in.Data = int32(b.Code)
	default:
		return fmt.Errorf("%w: unsupported button %s", ErrSimulate, b)
	}
	return d.sendMouse(in)
}

// wheel injects the horizontal axis, then the vertical one. A failure on the
// horizontal axis returns before the vertical axis is converted or sent.
func (d *Dispatcher) wheel(deltaX, deltaY int64) error {
	if deltaX != 0 {
		data, err := wheelData(deltaX)
		if err != nil {
			return err
		}
		if err := d.sendMouse(wininput.MouseInput{Flags: wininput.MouseHWheel, Data: data}); err != nil {
			return err
		}
	}
	if deltaY != 0 {
		data, err := wheelData(deltaY)
		if err != nil {
			return err
		}
		if err := d.sendMouse(wininput.MouseInput{Flags: wininput.MouseWheel, Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// move normalizes pixel coordinates to the absolute range of the virtual desktop.
func (d *Dispatcher) move(x, y float64) error {
	if d.screen == nil {
		return fmt.Errorf("%w: no screen metrics", ErrSimulate)
	}
	width, height := d.screen()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: virtual desktop is %dx%d", ErrSimulate, width, height)
	}
	dx, err := normalize(x, width)
	if err != nil {
		return err
	}
	dy, err := normalize(y, height)
	if err != nil {
		return err
	}
	return d.sendMouse(wininput.MouseInput{
		Flags: wininput.MouseMove | wininput.MouseAbsolute | wininput.MouseVirtualDesk,
		Dx:    dx,
		Dy:    dy,
	})
}

// sendMouse submits one mouse record.
func (d *Dispatcher) sendMouse(in wininput.MouseInput) error {
	if err := d.injector.SendMouse(in); err != nil {
		return fmt.Errorf("%w: %w", ErrSimulate, err)
	}
	return nil
}

// sendKeyboard submits one keyboard record.
func (d *Dispatcher) sendKeyboard(in wininput.KeyboardInput) error {
	if err := d.injector.SendKeyboard(in); err != nil {
		return fmt.Errorf("%w: %w", ErrSimulate, err)
	}
	return nil
}

// wheelData converts notches to the raw mouseData magnitude. Negative deltas have
// no unsigned representation and are rejected rather than wrapped.
func wheelData(delta int64) (int32, error) {
	if delta < 0 || delta > math.MaxUint32 {
		return 0, fmt.Errorf("%w: wheel delta %d is not representable as unsigned", ErrSimulate, delta)
	}
	magnitude := uint64(delta) * wininput.WheelDelta
	if magnitude > math.MaxInt32 {
		return 0, fmt.Errorf("%w: wheel delta %d overflows mouse data", ErrSimulate, delta)
	}
	return int32(magnitude), nil
}

// normalize computes (v+1)*65535/span with integer truncation. The +1 keeps the last
// pixel row and column reachable.
func normalize(v float64, span int32) (int32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: coordinate %v out of range", ErrSimulate, v)
	}
	scaled := (int64(int32(v)) + 1) * wininput.AbsoluteRange / int64(span)
	if scaled < math.MinInt32 || scaled > math.MaxInt32 {
		return 0, fmt.Errorf("%w: coordinate %v overflows absolute range", ErrSimulate, v)
	}
	return int32(scaled), nil
}

// pick returns down or up.
func pick[T any](down bool, downValue, upValue T) T {
	if down {
		return downValue
	}
	return upValue
}
