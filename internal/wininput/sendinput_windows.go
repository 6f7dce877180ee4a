//go:build windows

// Package wininput builds and submits single SendInput records.
package wininput

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
)

// WinInjector injects mouse and keyboard input using WinAPI.
type WinInjector struct{}

// NewInjector returns a Windows input injector.
func NewInjector() (Injector, error) {
	return &WinInjector{}, nil
}

// sizeofInput is sizeof(INPUT). The mouse and keyboard variants are padded to the same size.
var sizeofInput = int32(unsafe.Sizeof(win.MOUSE_INPUT{}))

// submit hands one record to SendInput and requires it to be accepted.
func submit(record unsafe.Pointer) error {
	if n := win.SendInput(1, record, sizeofInput); n != 1 {
		return fmt.Errorf("%w (accepted %d, last error %d)", ErrRejected, n, win.GetLastError())
	}
	return nil
}
