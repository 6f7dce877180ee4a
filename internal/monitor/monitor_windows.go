//go:build windows

// Package monitor describes display geometry and the virtual desktop.
package monitor

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// monitorInfoPrimary is MONITORINFOF_PRIMARY.
const monitorInfoPrimary = 0x1

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
)

// VirtualSize returns the virtual-desktop size in pixels. Zero means the query failed.
func VirtualSize() (width, height int32) {
	return win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN), win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN)
}

// ListMonitors returns the attached displays in enumeration order.
func ListMonitors() ([]Monitor, error) {
	if err := procEnumDisplayMonitors.Find(); err != nil {
		return nil, err
	}
	state := &enumState{}
	callback := windows.NewCallback(state.enumProc)

	ret, _, err := procEnumDisplayMonitors.Call(0, 0, callback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", err)
	}
	if len(state.list) == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	return state.list, nil
}

type enumState struct {
	list []Monitor
}

// enumProc is a MONITORENUMPROC. It records one monitor and keeps enumerating.
func (s *enumState) enumProc(hMonitor, _, _, _ uintptr) uintptr {
	var info win.MONITORINFO
	info.CbSize = uint32(unsafe.Sizeof(info))
	if !win.GetMonitorInfo(win.HMONITOR(hMonitor), &info) {
		return 1
	}

	r := info.RcMonitor
	s.list = append(s.list, Monitor{
		Index:   len(s.list) + 1,
		X:       int(r.Left),
		Y:       int(r.Top),
		W:       int(r.Right - r.Left),
		H:       int(r.Bottom - r.Top),
		Primary: info.DwFlags&monitorInfoPrimary != 0,
	})
	return 1
}
