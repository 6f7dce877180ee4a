// Package control decodes input control messages and applies them to the simulator.
package control

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/frudas24/deskinject/internal/event"
)

// Message types accepted on the control channel.
const (
	TypeKeyPress      = "keyPress"
	TypeKeyRelease    = "keyRelease"
	TypeButtonPress   = "buttonPress"
	TypeButtonRelease = "buttonRelease"
	TypeWheel         = "wheel"
	TypeMove          = "move"
	TypeInputEnabled  = "inputEnabled"
	TypePing          = "ping"
)

// ErrUnknownMessage indicates a message type the control channel does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

// ErrBadMessage indicates a known message type with missing or invalid fields.
var ErrBadMessage = errors.New("bad message")

// Message is a control payload.
type Message struct {
	T       string  `json:"t"`
	ID      int     `json:"id,omitempty"`
	Key     string  `json:"key,omitempty"`
	Button  string  `json:"button,omitempty"`
	Code    uint32  `json:"code,omitempty"`
	DX      int64   `json:"dx,omitempty"`
	DY      int64   `json:"dy,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// Reply acknowledges one message. ID echoes the request id.
type Reply struct {
	T     string `json:"t"`
	ID    int    `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Decode converts an input message into an event.
func Decode(msg Message) (event.Event, error) {
	switch msg.T {
	case TypeKeyPress, TypeKeyRelease:
		k, err := decodeKey(msg.Key, msg.Code)
		if err != nil {
			return event.Event{}, err
		}
		if msg.T == TypeKeyPress {
			return event.KeyPress(k), nil
		}
		return event.KeyRelease(k), nil
	case TypeButtonPress, TypeButtonRelease:
		if msg.Code > math.MaxUint8 {
			return event.Event{}, fmt.Errorf("%w: button code %d exceeds 255", ErrBadMessage, msg.Code)
		}
		b, ok := event.ParseButton(msg.Button, uint8(msg.Code))
		if !ok {
			return event.Event{}, fmt.Errorf("%w: unknown button %q", ErrBadMessage, msg.Button)
		}
		if msg.T == TypeButtonPress {
			return event.ButtonPress(b), nil
		}
		return event.ButtonRelease(b), nil
	case TypeWheel:
		return event.Wheel(msg.DX, msg.DY), nil
	case TypeMove:
		return event.MouseMove(msg.X, msg.Y), nil
	default:
		return event.Event{}, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.T)
	}
}

// Encode converts an event back into its message form.
func Encode(ev event.Event) (Message, error) {
	msg := Message{T: ev.Kind.String()}
	switch ev.Kind {
	case event.KindKeyPress, event.KindKeyRelease:
		if ev.Key.IsUnknown() {
			msg.Key, msg.Code = "unknown", ev.Key.Code()
		} else {
			msg.Key = ev.Key.String()
		}
	case event.KindButtonPress, event.KindButtonRelease:
		if ev.Button.Kind == event.ButtonUnknown {
			msg.Button, msg.Code = "unknown", uint32(ev.Button.Code)
		} else {
			msg.Button = ev.Button.String()
		}
	case event.KindWheel:
		msg.DX, msg.DY = ev.DeltaX, ev.DeltaY
	case event.KindMouseMove:
		msg.X, msg.Y = ev.X, ev.Y
	default:
		return Message{}, fmt.Errorf("%w: %s", ErrUnknownMessage, ev.Kind)
	}
	return msg, nil
}

// decodeKey resolves a key name, or a raw virtual key for "unknown".
func decodeKey(name string, code uint32) (event.Key, error) {
	if strings.EqualFold(strings.TrimSpace(name), "unknown") {
		return event.UnknownKey(code), nil
	}
	k, ok := event.ParseKey(name)
	if !ok {
		return event.Key{}, fmt.Errorf("%w: unknown key %q", ErrBadMessage, name)
	}
	return k, nil
}
