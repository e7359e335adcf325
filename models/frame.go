package models

// Range is a suggested [Min, Max] for one plot axis.
type Range struct {
	Min float64
	Max float64
}

type Series struct {
	// Channel is the zero based position of the value within each input line.
	Channel int
	// Values lines up 1:1 with Frame.Ticks. A tick with nothing recorded for this channel holds MissingValue.
	Values []float64
}

// MissingValue stands in for ticks a channel has no sample for, so lines stay continuous.
const MissingValue = 0.0

// Frame is a read-only copy of the store at one instant, ready to be drawn.
type Frame struct {
	// Ticks is the current window, oldest first.
	Ticks []int
	// Series holds one entry per known channel, ordered by channel index.
	Series []Series
	// X runs from the oldest tick to the newest plus a quarter window of lookahead.
	X Range
	// Y runs from the lowest value ever seen to the highest with some headroom.
	Y Range
}
