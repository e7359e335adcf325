package store

// history maps tick -> value for a single channel. Lookups never create entries, so a
// history only ever holds ticks that are still in the window.
type history map[int]float64

func (h history) get(tick int) (float64, bool) {
	v, ok := h[tick]
	return v, ok
}

func (h history) set(tick int, value float64) {
	h[tick] = value
}

func (h history) remove(tick int) {
	delete(h, tick)
}
