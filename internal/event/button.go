package event

import (
	"fmt"
	"strings"
)

// ButtonKind identifies a mouse button variant.
type ButtonKind int

const (
	// ButtonLeft is the primary button.
	ButtonLeft ButtonKind = iota + 1
	// ButtonMiddle is the wheel button.
	ButtonMiddle
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonForward is the first extended (X1) button.
	ButtonForward
	// ButtonBackward is the second extended (X2) button.
	ButtonBackward
	// ButtonUnknown is an extended button identified only by its numeric code.
	ButtonUnknown
)

// Button is a mouse button. Code is only meaningful for ButtonUnknown.
type Button struct {
	Kind ButtonKind
	Code uint8
}

var (
	// Left is the primary mouse button.
	Left = Button{Kind: ButtonLeft}
	// Middle is the middle mouse button.
	Middle = Button{Kind: ButtonMiddle}
	// Right is the secondary mouse button.
	Right = Button{Kind: ButtonRight}
	// Forward is the X1 mouse button.
	Forward = Button{Kind: ButtonForward}
	// Backward is the X2 mouse button.
	Backward = Button{Kind: ButtonBackward}
)

// UnknownButton returns an extended button carrying a raw code.
func UnknownButton(code uint8) Button {
	return Button{Kind: ButtonUnknown, Code: code}
}

// String returns the wire name of the button.
func (b Button) String() string {
	switch b.Kind {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonForward:
		return "forward"
	case ButtonBackward:
		return "backward"
	case ButtonUnknown:
		return fmt.Sprintf("unknown(%d)", b.Code)
	default:
		return "invalid"
	}
}

// ParseButton resolves a wire name. code is used only for "unknown".
func ParseButton(name string, code uint8) (Button, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return Left, true
	case "middle":
		return Middle, true
	case "right":
		return Right, true
	case "forward", "x1":
		return Forward, true
	case "backward", "back", "x2":
		return Backward, true
	case "unknown":
		return UnknownButton(code), true
	default:
		return Button{}, false
	}
}
