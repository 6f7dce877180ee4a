//go:build windows

package keycodes

import "golang.org/x/sys/windows"

// mapVKToVSC is MAPVK_VK_TO_VSC.
const mapVKToVSC = 0

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procMapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

// systemScan asks the active keyboard layout for the scan code of code.
func systemScan(code uint16) (uint16, bool) {
	if procMapVirtualKeyW.Find() != nil {
		return 0, false
	}
	scan, _, _ := procMapVirtualKeyW.Call(uintptr(code), mapVKToVSC)
	if scan == 0 {
		return 0, false
	}
	return uint16(scan), true
}
