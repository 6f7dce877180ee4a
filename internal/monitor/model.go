// Package monitor describes display geometry and the virtual desktop.
package monitor

// Monitor describes a display and its bounds in virtual-desktop pixels.
type Monitor struct {
	Index   int  `json:"index"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	W       int  `json:"w"`
	H       int  `json:"h"`
	Primary bool `json:"primary"`
}

// Rect is a bounding rectangle in virtual-desktop pixels.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Union returns the rectangle spanning every monitor in list.
func Union(list []Monitor) Rect {
	if len(list) == 0 {
		return Rect{}
	}
	left, top := list[0].X, list[0].Y
	right, bottom := left+list[0].W, top+list[0].H
	for _, m := range list[1:] {
		left = min(left, m.X)
		top = min(top, m.Y)
		right = max(right, m.X+m.W)
		bottom = max(bottom, m.Y+m.H)
	}
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}
