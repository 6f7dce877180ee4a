//go:build windows

// Package wininput builds and submits single SendInput records.
package wininput

import (
	"unsafe"

	"github.com/lxn/win"
)

// SendKeyboard submits one INPUT_KEYBOARD record.
func (w *WinInjector) SendKeyboard(in KeyboardInput) error {
	record := win.KEYBD_INPUT{
		Type: win.INPUT_KEYBOARD,
		Ki: win.KEYBDINPUT{
			WVk:     in.VirtualKey,
			WScan:   in.ScanCode,
			DwFlags: uint32(in.Flags),
		},
	}
	return submit(unsafe.Pointer(&record))
}
