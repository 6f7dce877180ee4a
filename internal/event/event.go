// Package event defines the platform-neutral input events accepted by the simulator.
package event

import "fmt"

// Kind identifies which variant of Event is populated.
type Kind int

const (
	// KindKeyPress presses a key.
	KindKeyPress Kind = iota + 1
	// KindKeyRelease releases a key.
	KindKeyRelease
	// KindButtonPress presses a mouse button.
	KindButtonPress
	// KindButtonRelease releases a mouse button.
	KindButtonRelease
	// KindWheel scrolls the mouse wheel.
	KindWheel
	// KindMouseMove moves the pointer to an absolute position.
	KindMouseMove
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindKeyPress:
		return "keyPress"
	case KindKeyRelease:
		return "keyRelease"
	case KindButtonPress:
		return "buttonPress"
	case KindButtonRelease:
		return "buttonRelease"
	case KindWheel:
		return "wheel"
	case KindMouseMove:
		return "move"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one abstract input event. Only the fields belonging to Kind are meaningful.
type Event struct {
	Kind   Kind
	Key    Key
	Button Button
	// DeltaX and DeltaY are wheel notches; positive values scroll right and up.
	DeltaX int64
	DeltaY int64
	// X and Y are pixel coordinates on the virtual desktop.
	X float64
	Y float64
}

// KeyPress returns a key press event.
func KeyPress(k Key) Event {
	return Event{Kind: KindKeyPress, Key: k}
}

// KeyRelease returns a key release event.
func KeyRelease(k Key) Event {
	return Event{Kind: KindKeyRelease, Key: k}
}

// ButtonPress returns a mouse button press event.
func ButtonPress(b Button) Event {
	return Event{Kind: KindButtonPress, Button: b}
}

// ButtonRelease returns a mouse button release event.
func ButtonRelease(b Button) Event {
	return Event{Kind: KindButtonRelease, Button: b}
}

// Wheel returns a scroll event measured in wheel notches.
func Wheel(deltaX, deltaY int64) Event {
	return Event{Kind: KindWheel, DeltaX: deltaX, DeltaY: deltaY}
}

// MouseMove returns an absolute pointer move event.
func MouseMove(x, y float64) Event {
	return Event{Kind: KindMouseMove, X: x, Y: y}
}

// String formats the event for logs.
func (e Event) String() string {
	switch e.Kind {
	case KindKeyPress, KindKeyRelease:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Key)
	case KindButtonPress, KindButtonRelease:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Button)
	case KindWheel:
		return fmt.Sprintf("wheel(dx=%d, dy=%d)", e.DeltaX, e.DeltaY)
	case KindMouseMove:
		return fmt.Sprintf("move(x=%g, y=%g)", e.X, e.Y)
	default:
		return e.Kind.String()
	}
}
