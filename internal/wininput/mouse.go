//go:build windows

// Package wininput builds and submits single SendInput records.
package wininput

import (
	"unsafe"

	"github.com/lxn/win"
)

// SendMouse submits one INPUT_MOUSE record.
func (w *WinInjector) SendMouse(in MouseInput) error {
	record := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        in.Dx,
			Dy:        in.Dy,
			MouseData: uint32(in.Data),
			DwFlags:   uint32(in.Flags),
		},
	}
	return submit(unsafe.Pointer(&record))
}
