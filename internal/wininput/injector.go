// Package wininput builds and submits single SendInput records.
package wininput

import "errors"

// ErrRejected indicates SendInput did not accept the submitted record, for example
// because the input desktop is locked or another process blocks injection.
var ErrRejected = errors.New("sendinput rejected the input")

// MouseFlags is the dwFlags bitmask of a MOUSEINPUT record.
type MouseFlags uint32

// Mouse flag bits, as published in WinUser.h.
const (
	MouseMove        MouseFlags = 0x0001
	MouseLeftDown    MouseFlags = 0x0002
	MouseLeftUp      MouseFlags = 0x0004
	MouseRightDown   MouseFlags = 0x0008
	MouseRightUp     MouseFlags = 0x0010
	MouseMiddleDown  MouseFlags = 0x0020
	MouseMiddleUp    MouseFlags = 0x0040
	MouseXDown       MouseFlags = 0x0080
	MouseXUp         MouseFlags = 0x0100
	MouseWheel       MouseFlags = 0x0800
	MouseHWheel      MouseFlags = 0x1000
	MouseVirtualDesk MouseFlags = 0x4000
	MouseAbsolute    MouseFlags = 0x8000
)

// KeyFlags is the dwFlags bitmask of a KEYBDINPUT record.
type KeyFlags uint32

const (
	// KeyDown has no flag bit set; WinUser.h does not name it.
	KeyDown KeyFlags = 0
	// KeyUp is KEYEVENTF_KEYUP.
	KeyUp KeyFlags = 0x0002
)

const (
	// WheelDelta is the mouseData magnitude of one wheel notch (WHEEL_DELTA).
	WheelDelta = 120
	// XButton1 is the mouseData id of the forward extended button.
	XButton1 = 1
	// XButton2 is the mouseData id of the backward extended button.
	XButton2 = 2
	// AbsoluteRange is the upper bound of normalized absolute coordinates.
	AbsoluteRange = 65535
)

// MouseInput is one mouse record. Time and extra info are always zero.
type MouseInput struct {
	Flags MouseFlags
	// Data is the button id or wheel magnitude, depending on Flags.
	Data int32
	Dx   int32
	Dy   int32
}

// KeyboardInput is one keyboard record. Time and extra info are always zero.
type KeyboardInput struct {
	Flags      KeyFlags
	VirtualKey uint16
	ScanCode   uint16
}

// Injector submits exactly one input record per call and reports whether the OS
// accepted it.
type Injector interface {
	SendMouse(in MouseInput) error
	SendKeyboard(in KeyboardInput) error
}
