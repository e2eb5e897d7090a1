package window

import "math"

// MonitorGeometry is the desktop rectangle of one attached display.
type MonitorGeometry struct {
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// ValidatePosition reports whether the window rectangle overlaps at least
// one monitor on both axes. Intervals are half-open. Without any monitor
// information only a coarse coordinate bound is applied, so startup is never
// blocked by a missing display list.
func ValidatePosition(x, y int32, width, height uint32, monitors []MonitorGeometry) bool {
	if len(monitors) == 0 {
		return inCoarseBounds(x) && inCoarseBounds(y)
	}
	for _, m := range monitors {
		if overlaps(int64(x), int64(width), int64(m.X), int64(m.Width)) &&
			overlaps(int64(y), int64(height), int64(m.Y), int64(m.Height)) {
			return true
		}
	}
	return false
}

// overlaps tests [a, a+alen) against [b, b+blen).
func overlaps(a, alen, b, blen int64) bool {
	return a < b+blen && a+alen > b
}

func inCoarseBounds(v int32) bool {
	return v >= math.MinInt16 && v <= math.MaxInt16
}
