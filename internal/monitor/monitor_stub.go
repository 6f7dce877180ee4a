//go:build !windows

// Package monitor describes display geometry and the virtual desktop.
package monitor

import "fmt"

// ListMonitors returns an error on non-Windows platforms.
func ListMonitors() ([]Monitor, error) {
	return nil, fmt.Errorf("ListMonitors is only supported on Windows")
}

// VirtualSize reports no virtual desktop on non-Windows platforms.
func VirtualSize() (width, height int32) {
	return 0, 0
}
