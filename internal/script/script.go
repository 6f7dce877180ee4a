// Package script parses YAML input scripts and replays them through a simulator.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/frudas24/deskinject/internal/event"
	"gopkg.in/yaml.v3"
)

// MaxSleep bounds a single sleep step.
const MaxSleep = time.Minute

// ErrInvalidStep indicates a step that cannot be compiled into events.
var ErrInvalidStep = errors.New("invalid script step")

// ErrTooManySteps indicates a script longer than the configured limit.
var ErrTooManySteps = errors.New("too many script steps")

// StepError reports which step of a script failed validation.
type StepError struct {
	Index  int
	Reason string
}

// Error formats the step index and reason.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrInvalidStep, e.Index, e.Reason)
}

// Is matches ErrInvalidStep.
func (e *StepError) Is(target error) bool {
	return target == ErrInvalidStep
}

// Step is one YAML step. Exactly one action field must be set.
type Step struct {
	Press   string     `yaml:"press,omitempty"`
	Release string     `yaml:"release,omitempty"`
	Tap     string     `yaml:"tap,omitempty"`
	Down    string     `yaml:"down,omitempty"`
	Up      string     `yaml:"up,omitempty"`
	Click   string     `yaml:"click,omitempty"`
	Code    uint32     `yaml:"code,omitempty"`
	Wheel   *WheelStep `yaml:"wheel,omitempty"`
	Move    *MoveStep  `yaml:"move,omitempty"`
	Sleep   string     `yaml:"sleep,omitempty"`
}

// WheelStep scrolls by whole notches.
type WheelStep struct {
	DX int64 `yaml:"dx"`
	DY int64 `yaml:"dy"`
}

// MoveStep moves the pointer to absolute virtual-desktop pixels.
type MoveStep struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Document is the YAML layout of a script file.
type Document struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Action is either an event to simulate or a pause.
type Action struct {
	Step  int
	Event *event.Event
	Sleep time.Duration
}

// String describes the action for dry runs.
func (a Action) String() string {
	if a.Event != nil {
		return fmt.Sprintf("step %d: %s", a.Step, a.Event)
	}
	return fmt.Sprintf("step %d: sleep %s", a.Step, a.Sleep)
}

// Script is a compiled, validated script.
type Script struct {
	Name    string
	Actions []Action
}

// Parse decodes and compiles a YAML script. maxSteps <= 0 disables the limit.
func Parse(data []byte, maxSteps int) (Script, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, errors.New("empty script")
		}
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	return Compile(doc, maxSteps)
}

// Compile validates doc and expands its steps into actions.
func Compile(doc Document, maxSteps int) (Script, error) {
	if len(doc.Steps) == 0 {
		return Script{}, errors.New("script has no steps")
	}
	if maxSteps > 0 && len(doc.Steps) > maxSteps {
		return Script{}, fmt.Errorf("%w: %d > %d", ErrTooManySteps, len(doc.Steps), maxSteps)
	}

	out := Script{Name: strings.TrimSpace(doc.Name)}
	for i, step := range doc.Steps {
		actions, err := compileStep(i, step)
		if err != nil {
			return Script{}, err
		}
		out.Actions = append(out.Actions, actions...)
	}
	return out, nil
}

// Events returns the events of s in order, skipping pauses.
func (s Script) Events() []event.Event {
	out := make([]event.Event, 0, len(s.Actions))
	for _, a := range s.Actions {
		if a.Event != nil {
			out = append(out, *a.Event)
		}
	}
	return out
}

// compileStep expands one step.
func compileStep(index int, step Step) ([]Action, error) {
	fail := func(format string, args ...any) ([]Action, error) {
		return nil, &StepError{Index: index, Reason: fmt.Sprintf(format, args...)}
	}
	if n := actionCount(step); n != 1 {
		return fail("expected exactly one action, got %d", n)
	}
	single := func(evs ...event.Event) []Action {
		out := make([]Action, len(evs))
		for i := range evs {
			out[i] = Action{Step: index, Event: &evs[i]}
		}
		return out
	}

	switch {
	case step.Press != "" || step.Release != "" || step.Tap != "":
		name := firstNonEmpty(step.Press, step.Release, step.Tap)
		k, err := parseKey(name, step.Code)
		if err != nil {
			return fail("%v", err)
		}
		switch {
		case step.Press != "":
			return single(event.KeyPress(k)), nil
		case step.Release != "":
			return single(event.KeyRelease(k)), nil
		default:
			return single(event.KeyPress(k), event.KeyRelease(k)), nil
		}
	case step.Down != "" || step.Up != "" || step.Click != "":
		name := firstNonEmpty(step.Down, step.Up, step.Click)
		if step.Code > math.MaxUint8 {
			return fail("button code %d exceeds 255", step.Code)
		}
		b, ok := event.ParseButton(name, uint8(step.Code))
		if !ok {
			return fail("unknown button %q", name)
		}
		switch {
		case step.Down != "":
			return single(event.ButtonPress(b)), nil
		case step.Up != "":
			return single(event.ButtonRelease(b)), nil
		default:
			return single(event.ButtonPress(b), event.ButtonRelease(b)), nil
		}
	case step.Wheel != nil:
		return single(event.Wheel(step.Wheel.DX, step.Wheel.DY)), nil
	case step.Move != nil:
		return single(event.MouseMove(step.Move.X, step.Move.Y)), nil
	default:
		d, err := time.ParseDuration(strings.TrimSpace(step.Sleep))
		if err != nil {
			return fail("bad sleep %q", step.Sleep)
		}
		if d < 0 || d > MaxSleep {
			return fail("sleep %s outside [0, %s]", d, MaxSleep)
		}
		return []Action{{Step: index, Sleep: d}}, nil
	}
}

// actionCount counts the action fields set on step.
func actionCount(step Step) int {
	n := 0
	for _, s := range []string{step.Press, step.Release, step.Tap, step.Down, step.Up, step.Click, step.Sleep} {
		if s != "" {
			n++
		}
	}
	if step.Wheel != nil {
		n++
	}
	if step.Move != nil {
		n++
	}
	return n
}

// parseKey resolves a key name, or a raw virtual key for "unknown".
func parseKey(name string, code uint32) (event.Key, error) {
	if strings.EqualFold(strings.TrimSpace(name), "unknown") {
		return event.UnknownKey(code), nil
	}
	k, ok := event.ParseKey(name)
	if !ok {
		return event.Key{}, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
