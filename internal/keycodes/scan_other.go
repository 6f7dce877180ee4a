//go:build !windows

package keycodes

// systemScan has no layout to consult off Windows.
func systemScan(uint16) (uint16, bool) {
	return 0, false
}
