package store

import "plotser/models"

// Y_HEADROOM stretches the top of the y axis so the highest point isn't drawn on the edge.
const Y_HEADROOM = 1.1

// Snapshot copies the current window out for drawing. It returns false when nothing has
// been ingested yet. It never modifies the store.
func (s *Store) Snapshot() (*models.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window.Len() == 0 {
		return nil, false
	}

	ticks := s.ticks()
	series := make([]models.Series, len(s.channels))
	for channel, h := range s.channels {
		values := make([]float64, len(ticks))
		for i, t := range ticks {
			if v, ok := h.get(t); ok {
				values[i] = v
			} else {
				values[i] = models.MissingValue
			}
		}
		series[channel] = models.Series{Channel: channel, Values: values}
	}

	first, last := ticks[0], ticks[len(ticks)-1]
	return &models.Frame{
		Ticks:  ticks,
		Series: series,
		X:      models.Range{Min: float64(first), Max: float64(last + s.windowSize/4)},
		Y:      models.Range{Min: s.bounds.Min, Max: s.bounds.Max * Y_HEADROOM},
	}, true
}
