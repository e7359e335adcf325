package models

// Line is the visual identity handed out to a channel the first time it shows up.
type Line struct {
	Channel int
	// Colour is a 3 byte hex colour with the # prefix.
	Colour string
}

// Plot is one line as handed to a render surface.
type Plot struct {
	Line Line
	Xs   []int
	Ys   []float64
}

// Picture is everything a surface needs to draw one redraw.
type Picture struct {
	// Seq increases by one for every redraw of the same surface.
	Seq   int
	Title string
	Plots []Plot
	X     Range
	Y     Range
}
