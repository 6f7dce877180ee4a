// Package keycodes maps abstract keys to Windows virtual-key codes and scan codes.
//
// CodeFromKey and ScanFromCode are pure tables so they behave identically on every
// build target; a missing entry is an expected outcome and is reported with
// ok == false. ScanFromSystem extends the table with the active keyboard layout on
// Windows and is opt-in because its answers depend on that layout.
package keycodes

import (
	"math"

	"github.com/frudas24/deskinject/internal/event"
)

// Virtual-key codes used by the tables, as published in WinUser.h.
const (
	vkBack      uint16 = 0x08
	vkTab       uint16 = 0x09
	vkReturn    uint16 = 0x0D
	vkPause     uint16 = 0x13
	vkCapital   uint16 = 0x14
	vkEscape    uint16 = 0x1B
	vkSpace     uint16 = 0x20
	vkPrior     uint16 = 0x21
	vkNext      uint16 = 0x22
	vkEnd       uint16 = 0x23
	vkHome      uint16 = 0x24
	vkLeft      uint16 = 0x25
	vkUp        uint16 = 0x26
	vkRight     uint16 = 0x27
	vkDown      uint16 = 0x28
	vkSnapshot  uint16 = 0x2C
	vkInsert    uint16 = 0x2D
	vkDelete    uint16 = 0x2E
	vkLWin      uint16 = 0x5B
	vkRWin      uint16 = 0x5C
	vkNumpad0   uint16 = 0x60
	vkMultiply  uint16 = 0x6A
	vkAdd       uint16 = 0x6B
	vkSubtract  uint16 = 0x6D
	vkDecimal   uint16 = 0x6E
	vkDivide    uint16 = 0x6F
	vkF1        uint16 = 0x70
	vkNumLock   uint16 = 0x90
	vkScroll    uint16 = 0x91
	vkLShift    uint16 = 0xA0
	vkRShift    uint16 = 0xA1
	vkLControl  uint16 = 0xA2
	vkRControl  uint16 = 0xA3
	vkLMenu     uint16 = 0xA4
	vkRMenu     uint16 = 0xA5
	vkOEM1      uint16 = 0xBA
	vkOEMPlus   uint16 = 0xBB
	vkOEMComma  uint16 = 0xBC
	vkOEMMinus  uint16 = 0xBD
	vkOEMPeriod uint16 = 0xBE
	vkOEM2      uint16 = 0xBF
	vkOEM3      uint16 = 0xC0
	vkOEM4      uint16 = 0xDB
	vkOEM5      uint16 = 0xDC
	vkOEM6      uint16 = 0xDD
	vkOEM7      uint16 = 0xDE
	vkOEM102    uint16 = 0xE2
)

var keyToCode = map[event.Key]uint16{
	event.Alt:           vkLMenu,
	event.AltGr:         vkRMenu,
	event.Backspace:     vkBack,
	event.CapsLock:      vkCapital,
	event.ControlLeft:   vkLControl,
	event.ControlRight:  vkRControl,
	event.Delete:        vkDelete,
	event.DownArrow:     vkDown,
	event.End:           vkEnd,
	event.Escape:        vkEscape,
	event.F1:            vkF1,
	event.F2:            vkF1 + 1,
	event.F3:            vkF1 + 2,
	event.F4:            vkF1 + 3,
	event.F5:            vkF1 + 4,
	event.F6:            vkF1 + 5,
	event.F7:            vkF1 + 6,
	event.F8:            vkF1 + 7,
	event.F9:            vkF1 + 8,
	event.F10:           vkF1 + 9,
	event.F11:           vkF1 + 10,
	event.F12:           vkF1 + 11,
	event.Home:          vkHome,
	event.LeftArrow:     vkLeft,
	event.MetaLeft:      vkLWin,
	event.MetaRight:     vkRWin,
	event.PageDown:      vkNext,
	event.PageUp:        vkPrior,
	event.Return:        vkReturn,
	event.RightArrow:    vkRight,
	event.ShiftLeft:     vkLShift,
	event.ShiftRight:    vkRShift,
	event.Space:         vkSpace,
	event.Tab:           vkTab,
	event.UpArrow:       vkUp,
	event.PrintScreen:   vkSnapshot,
	event.ScrollLock:    vkScroll,
	event.Pause:         vkPause,
	event.NumLock:       vkNumLock,
	event.BackQuote:     vkOEM3,
	event.Num1:          '1',
	event.Num2:          '2',
	event.Num3:          '3',
	event.Num4:          '4',
	event.Num5:          '5',
	event.Num6:          '6',
	event.Num7:          '7',
	event.Num8:          '8',
	event.Num9:          '9',
	event.Num0:          '0',
	event.Minus:         vkOEMMinus,
	event.Equal:         vkOEMPlus,
	event.KeyQ:          'Q',
	event.KeyW:          'W',
	event.KeyE:          'E',
	event.KeyR:          'R',
	event.KeyT:          'T',
	event.KeyY:          'Y',
	event.KeyU:          'U',
	event.KeyI:          'I',
	event.KeyO:          'O',
	event.KeyP:          'P',
	event.LeftBracket:   vkOEM4,
	event.RightBracket:  vkOEM6,
	event.KeyA:          'A',
	event.KeyS:          'S',
	event.KeyD:          'D',
	event.KeyF:          'F',
	event.KeyG:          'G',
	event.KeyH:          'H',
	event.KeyJ:          'J',
	event.KeyK:          'K',
	event.KeyL:          'L',
	event.SemiColon:     vkOEM1,
	event.Quote:         vkOEM7,
	event.BackSlash:     vkOEM5,
	event.IntlBackslash: vkOEM102,
	event.KeyZ:          'Z',
	event.KeyX:          'X',
	event.KeyC:          'C',
	event.KeyV:          'V',
	event.KeyB:          'B',
	event.KeyN:          'N',
	event.KeyM:          'M',
	event.Comma:         vkOEMComma,
	event.Dot:           vkOEMPeriod,
	event.Slash:         vkOEM2,
	event.Insert:        vkInsert,
	event.KpReturn:      vkReturn,
	event.KpMinus:       vkSubtract,
	event.KpPlus:        vkAdd,
	event.KpMultiply:    vkMultiply,
	event.KpDivide:      vkDivide,
	event.Kp0:           vkNumpad0,
	event.Kp1:           vkNumpad0 + 1,
	event.Kp2:           vkNumpad0 + 2,
	event.Kp3:           vkNumpad0 + 3,
	event.Kp4:           vkNumpad0 + 4,
	event.Kp5:           vkNumpad0 + 5,
	event.Kp6:           vkNumpad0 + 6,
	event.Kp7:           vkNumpad0 + 7,
	event.Kp8:           vkNumpad0 + 8,
	event.Kp9:           vkNumpad0 + 9,
	event.KpDelete:      vkDecimal,
	// Function has no virtual key; the Fn key never reaches the OS.
}

// Set-1 scan codes, matching MapVirtualKey(MAPVK_VK_TO_VSC) on a US layout.
var codeToScan = map[uint16]uint16{
	vkBack:      0x0E,
	vkTab:       0x0F,
	vkReturn:    0x1C,
	vkPause:     0x45,
	vkCapital:   0x3A,
	vkEscape:    0x01,
	vkSpace:     0x39,
	vkPrior:     0x49,
	vkNext:      0x51,
	vkEnd:       0x4F,
	vkHome:      0x47,
	vkLeft:      0x4B,
	vkUp:        0x48,
	vkRight:     0x4D,
	vkDown:      0x50,
	vkSnapshot:  0x54,
	vkInsert:    0x52,
	vkDelete:    0x53,
	'0':         0x0B,
	'1':         0x02,
	'2':         0x03,
	'3':         0x04,
	'4':         0x05,
	'5':         0x06,
	'6':         0x07,
	'7':         0x08,
	'8':         0x09,
	'9':         0x0A,
	'A':         0x1E,
	'B':         0x30,
	'C':         0x2E,
	'D':         0x20,
	'E':         0x12,
	'F':         0x21,
	'G':         0x22,
	'H':         0x23,
	'I':         0x17,
	'J':         0x24,
	'K':         0x25,
	'L':         0x26,
	'M':         0x32,
	'N':         0x31,
	'O':         0x18,
	'P':         0x19,
	'Q':         0x10,
	'R':         0x13,
	'S':         0x1F,
	'T':         0x14,
	'U':         0x16,
	'V':         0x2F,
	'W':         0x11,
	'X':         0x2D,
	'Y':         0x15,
	'Z':         0x2C,
	vkLWin:      0x5B,
	vkRWin:      0x5C,
	vkNumpad0:   0x52,
	0x61:        0x4F,
	0x62:        0x50,
	0x63:        0x51,
	0x64:        0x4B,
	0x65:        0x4C,
	0x66:        0x4D,
	0x67:        0x47,
	0x68:        0x48,
	0x69:        0x49,
	vkMultiply:  0x37,
	vkAdd:       0x4E,
	vkSubtract:  0x4A,
	vkDecimal:   0x53,
	vkDivide:    0x35,
	vkF1:        0x3B,
	0x71:        0x3C,
	0x72:        0x3D,
	0x73:        0x3E,
	0x74:        0x3F,
	0x75:        0x40,
	0x76:        0x41,
	0x77:        0x42,
	0x78:        0x43,
	0x79:        0x44,
	0x7A:        0x57,
	0x7B:        0x58,
	vkNumLock:   0x45,
	vkScroll:    0x46,
	vkLShift:    0x2A,
	vkRShift:    0x36,
	vkLControl:  0x1D,
	vkRControl:  0x1D,
	vkLMenu:     0x38,
	vkRMenu:     0x38,
	vkOEM1:      0x27,
	vkOEMPlus:   0x0D,
	vkOEMComma:  0x33,
	vkOEMMinus:  0x0C,
	vkOEMPeriod: 0x34,
	vkOEM2:      0x35,
	vkOEM3:      0x29,
	vkOEM4:      0x1A,
	vkOEM5:      0x2B,
	vkOEM6:      0x1B,
	vkOEM7:      0x28,
	vkOEM102:    0x56,
}

// CodeFromKey returns the virtual-key code for k. Unknown keys pass their raw code
// through when it fits in 16 bits.
func CodeFromKey(k event.Key) (uint16, bool) {
	if k.IsUnknown() {
		if k.Code() > math.MaxUint16 {
			return 0, false
		}
		return uint16(k.Code()), true
	}
	code, ok := keyToCode[k]
	return code, ok
}

// ScanFromCode returns the scan code for a virtual-key code.
func ScanFromCode(code uint16) (uint16, bool) {
	scan, ok := codeToScan[code]
	return scan, ok
}

// ScanFromSystem returns the table scan code for code, falling back to the
// system keyboard layout for virtual keys the table does not know.
func ScanFromSystem(code uint16) (uint16, bool) {
	if scan, ok := ScanFromCode(code); ok {
		return scan, true
	}
	return systemScan(code)
}
