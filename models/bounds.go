package models

import "math"

// Bounds is the running extreme of every value seen on any channel. It only ever widens,
// data leaving the window does not shrink it.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds is where a fresh store starts. Float streams start at 0..1, integer
// streams start collapsed at 0 and open up with the first sample.
func DefaultBounds(mode NumericMode) Bounds {
	if mode == Int {
		return Bounds{0, 0}
	}
	return Bounds{0, 1}
}

// Widen stretches b to include v. NaN compares with nothing and is ignored.
func (b *Bounds) Widen(v float64) {
	if math.IsNaN(v) {
		return
	}
	b.Min = min(b.Min, v)
	b.Max = max(b.Max, v)
}
