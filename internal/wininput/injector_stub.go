//go:build !windows

// Package wininput builds and submits single SendInput records.
package wininput

import "errors"

// ErrUnsupported indicates WinAPI input injection is not available.
var ErrUnsupported = errors.New("wininput is only supported on Windows")

// NoopInjector is a placeholder injector for non-Windows builds.
type NoopInjector struct{}

// NewInjector returns a non-functional injector on non-Windows platforms.
func NewInjector() (Injector, error) {
	return &NoopInjector{}, ErrUnsupported
}

// SendMouse returns ErrUnsupported.
func (n *NoopInjector) SendMouse(in MouseInput) error {
	_ = in
	return ErrUnsupported
}

// SendKeyboard returns ErrUnsupported.
func (n *NoopInjector) SendKeyboard(in KeyboardInput) error {
	_ = in
	return ErrUnsupported
}
