package event

import (
	"fmt"
	"strings"
)

// Key is a physical key identified by its layout-independent name. Keys outside the
// named set are carried as UnknownKey with a raw platform code.
type Key struct {
	name string
	code uint32
}

const unknownKeyName = "Unknown"

// UnknownKey returns a key identified only by a raw platform key code.
func UnknownKey(code uint32) Key {
	return Key{name: unknownKeyName, code: code}
}

// IsUnknown reports whether the key carries a raw code instead of a name.
func (k Key) IsUnknown() bool {
	return k.name == unknownKeyName
}

// Code returns the raw platform code of an unknown key.
func (k Key) Code() uint32 {
	return k.code
}

// String returns the key name.
func (k Key) String() string {
	if k.IsUnknown() {
		return fmt.Sprintf("%s(%d)", unknownKeyName, k.code)
	}
	if k.name == "" {
		return "None"
	}
	return k.name
}

// Named keys.
var (
	Alt           = Key{name: "Alt"}
	AltGr         = Key{name: "AltGr"}
	Backspace     = Key{name: "Backspace"}
	CapsLock      = Key{name: "CapsLock"}
	ControlLeft   = Key{name: "ControlLeft"}
	ControlRight  = Key{name: "ControlRight"}
	Delete        = Key{name: "Delete"}
	DownArrow     = Key{name: "DownArrow"}
	End           = Key{name: "End"}
	Escape        = Key{name: "Escape"}
	F1            = Key{name: "F1"}
	F2            = Key{name: "F2"}
	F3            = Key{name: "F3"}
	F4            = Key{name: "F4"}
	F5            = Key{name: "F5"}
	F6            = Key{name: "F6"}
	F7            = Key{name: "F7"}
	F8            = Key{name: "F8"}
	F9            = Key{name: "F9"}
	F10           = Key{name: "F10"}
	F11           = Key{name: "F11"}
	F12           = Key{name: "F12"}
	Home          = Key{name: "Home"}
	LeftArrow     = Key{name: "LeftArrow"}
	MetaLeft      = Key{name: "MetaLeft"}
	MetaRight     = Key{name: "MetaRight"}
	PageDown      = Key{name: "PageDown"}
	PageUp        = Key{name: "PageUp"}
	Return        = Key{name: "Return"}
	RightArrow    = Key{name: "RightArrow"}
	ShiftLeft     = Key{name: "ShiftLeft"}
	ShiftRight    = Key{name: "ShiftRight"}
	Space         = Key{name: "Space"}
	Tab           = Key{name: "Tab"}
	UpArrow       = Key{name: "UpArrow"}
	PrintScreen   = Key{name: "PrintScreen"}
	ScrollLock    = Key{name: "ScrollLock"}
	Pause         = Key{name: "Pause"}
	NumLock       = Key{name: "NumLock"}
	BackQuote     = Key{name: "BackQuote"}
	Num1          = Key{name: "Num1"}
	Num2          = Key{name: "Num2"}
	Num3          = Key{name: "Num3"}
	Num4          = Key{name: "Num4"}
	Num5          = Key{name: "Num5"}
	Num6          = Key{name: "Num6"}
	Num7          = Key{name: "Num7"}
	Num8          = Key{name: "Num8"}
	Num9          = Key{name: "Num9"}
	Num0          = Key{name: "Num0"}
	Minus         = Key{name: "Minus"}
	Equal         = Key{name: "Equal"}
	KeyQ          = Key{name: "KeyQ"}
	KeyW          = Key{name: "KeyW"}
	KeyE          = Key{name: "KeyE"}
	KeyR          = Key{name: "KeyR"}
	KeyT          = Key{name: "KeyT"}
	KeyY          = Key{name: "KeyY"}
	KeyU          = Key{name: "KeyU"}
	KeyI          = Key{name: "KeyI"}
	KeyO          = Key{name: "KeyO"}
	KeyP          = Key{name: "KeyP"}
	LeftBracket   = Key{name: "LeftBracket"}
	RightBracket  = Key{name: "RightBracket"}
	KeyA          = Key{name: "KeyA"}
	KeyS          = Key{name: "KeyS"}
	KeyD          = Key{name: "KeyD"}
	KeyF          = Key{name: "KeyF"}
	KeyG          = Key{name: "KeyG"}
	KeyH          = Key{name: "KeyH"}
	KeyJ          = Key{name: "KeyJ"}
	KeyK          = Key{name: "KeyK"}
	KeyL          = Key{name: "KeyL"}
	SemiColon     = Key{name: "SemiColon"}
	Quote         = Key{name: "Quote"}
	BackSlash     = Key{name: "BackSlash"}
	IntlBackslash = Key{name: "IntlBackslash"}
	KeyZ          = Key{name: "KeyZ"}
	KeyX          = Key{name: "KeyX"}
	KeyC          = Key{name: "KeyC"}
	KeyV          = Key{name: "KeyV"}
	KeyB          = Key{name: "KeyB"}
	KeyN          = Key{name: "KeyN"}
	KeyM          = Key{name: "KeyM"}
	Comma         = Key{name: "Comma"}
	Dot           = Key{name: "Dot"}
	Slash         = Key{name: "Slash"}
	Insert        = Key{name: "Insert"}
	KpReturn      = Key{name: "KpReturn"}
	KpMinus       = Key{name: "KpMinus"}
	KpPlus        = Key{name: "KpPlus"}
	KpMultiply    = Key{name: "KpMultiply"}
	KpDivide      = Key{name: "KpDivide"}
	Kp0           = Key{name: "Kp0"}
	Kp1           = Key{name: "Kp1"}
	Kp2           = Key{name: "Kp2"}
	Kp3           = Key{name: "Kp3"}
	Kp4           = Key{name: "Kp4"}
	Kp5           = Key{name: "Kp5"}
	Kp6           = Key{name: "Kp6"}
	Kp7           = Key{name: "Kp7"}
	Kp8           = Key{name: "Kp8"}
	Kp9           = Key{name: "Kp9"}
	KpDelete      = Key{name: "KpDelete"}
	Function      = Key{name: "Function"}
)

// namedKeys lists every named key in declaration order.
var namedKeys = []Key{
	Alt, AltGr, Backspace, CapsLock, ControlLeft, ControlRight, Delete, DownArrow, End,
	Escape, F1, F2, F3, F4, F5, F6, F7, F8, F9, F10, F11, F12, Home, LeftArrow, MetaLeft,
	MetaRight, PageDown, PageUp, Return, RightArrow, ShiftLeft, ShiftRight, Space, Tab,
	UpArrow, PrintScreen, ScrollLock, Pause, NumLock, BackQuote, Num1, Num2, Num3, Num4,
	Num5, Num6, Num7, Num8, Num9, Num0, Minus, Equal, KeyQ, KeyW, KeyE, KeyR, KeyT, KeyY,
	KeyU, KeyI, KeyO, KeyP, LeftBracket, RightBracket, KeyA, KeyS, KeyD, KeyF, KeyG, KeyH,
	KeyJ, KeyK, KeyL, SemiColon, Quote, BackSlash, IntlBackslash, KeyZ, KeyX, KeyC, KeyV,
	KeyB, KeyN, KeyM, Comma, Dot, Slash, Insert, KpReturn, KpMinus, KpPlus, KpMultiply,
	KpDivide, Kp0, Kp1, Kp2, Kp3, Kp4, Kp5, Kp6, Kp7, Kp8, Kp9, KpDelete, Function,
}

// NamedKeys returns a copy of the named key set.
func NamedKeys() []Key {
	out := make([]Key, len(namedKeys))
	copy(out, namedKeys)
	return out
}

// ParseKey resolves a key name, case-insensitively. Raw codes use UnknownKey instead.
func ParseKey(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	for _, k := range namedKeys {
		if strings.EqualFold(k.name, name) {
			return k, true
		}
	}
	return Key{}, false
}
