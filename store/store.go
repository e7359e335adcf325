package store

import (
	"sync"

	"github.com/gammazero/deque"

	"plotser/models"
)

const DEFAULT_WINDOW_SIZE = 2000

// Store is the single source of truth for the plotted data: the window of recent ticks,
// each channel's values within that window, and the running bounds. Ingest and Snapshot
// are atomic with respect to each other.
type Store struct {
	mu sync.Mutex

	// windowSize is the most ticks the window will hold.
	windowSize int
	// tick is the next tick to hand out.
	tick int
	// window holds the most recent ticks, oldest at the front.
	window deque.Deque[int]
	// channels is indexed by channel, a channel exists once any line had a value at its position.
	channels []history
	bounds   models.Bounds
}

func New(windowSize int, mode models.NumericMode) *Store {
	if windowSize < 1 {
		windowSize = DEFAULT_WINDOW_SIZE
	}
	return &Store{
		windowSize: windowSize,
		bounds:     models.DefaultBounds(mode),
	}
}

// Ingest records one parsed line and returns the tick it was stored under. An empty line
// still takes a tick and a slot in the window.
func (s *Store) Ingest(values []float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tick
	s.tick++
	s.window.PushBack(t)

	for i, v := range values {
		for len(s.channels) <= i {
			s.channels = append(s.channels, make(history))
		}
		s.channels[i].set(t, v)
		s.bounds.Widen(v)
	}

	// Only ever one over, we evict on every ingest.
	if s.window.Len() > s.windowSize {
		oldest := s.window.PopFront()
		for _, h := range s.channels {
			h.remove(oldest)
		}
	}

	return t
}

func (s *Store) WindowSize() int {
	return s.windowSize
}

// Len is the number of ticks currently in the window.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Len()
}

// Tick is the tick the next Ingest will use.
func (s *Store) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Window returns a copy of the ticks in the window, oldest first.
func (s *Store) Window() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks()
}

// Channels is how many channels have been seen so far.
func (s *Store) Channels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.channels)
}

// Value reports the value recorded for channel at tick, and false if there is none.
func (s *Store) Value(channel, tick int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if channel < 0 || channel >= len(s.channels) {
		return 0, false
	}
	return s.channels[channel].get(tick)
}

// HistoryLen is how many values channel currently holds.
func (s *Store) HistoryLen(channel int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if channel < 0 || channel >= len(s.channels) {
		return 0
	}
	return len(s.channels[channel])
}

func (s *Store) Bounds() models.Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// ticks copies the window out, callers must hold mu.
func (s *Store) ticks() []int {
	ticks := make([]int, s.window.Len())
	for i := range ticks {
		ticks[i] = s.window.At(i)
	}
	return ticks
}
