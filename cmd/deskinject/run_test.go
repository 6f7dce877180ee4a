package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/frudas24/deskinject/internal/script"
)

// TestPrintActions verifies dry runs print replayable control messages and pauses.
func TestPrintActions(t *testing.T) {
	s, err := script.Parse([]byte("steps:\n  - tap: KeyA\n  - sleep: 50ms\n  - wheel: {dx: 0, dy: 2}\n"), 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var out bytes.Buffer
	if err := printActions(&out, s); err != nil {
		t.Fatalf("printActions failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", out.String())
	}
	if !strings.HasSuffix(lines[0], `{"t":"keyPress","key":"KeyA"}`) {
		t.Fatalf("unexpected key line %q", lines[0])
	}
	if lines[2] != "step 1: sleep 50ms" {
		t.Fatalf("unexpected sleep line %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], `{"t":"wheel","dy":2}`) {
		t.Fatalf("unexpected wheel line %q", lines[3])
	}
}

// TestNewLogger_Levels verifies debug toggles the log level.
func TestNewLogger_Levels(t *testing.T) {
	if got := newLogger(true).GetLevel().String(); got != "debug" {
		t.Fatalf("expected debug level, got %s", got)
	}
	if got := newLogger(false).GetLevel().String(); got != "info" {
		t.Fatalf("expected info level, got %s", got)
	}
}
