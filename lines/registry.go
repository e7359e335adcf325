package lines

import (
	"sync"

	"plotser/config"
	"plotser/models"
)

// Registry hands each channel a colour the first time it is seen and keeps it for the
// life of the process. Colours are taken from the palette in rotation, wrapping once the
// palette runs out.
type Registry struct {
	mu      sync.Mutex
	palette []string
	// lines is the arena of identities in allocation order.
	lines []models.Line
	// byChannel indexes into lines.
	byChannel map[int]int
}

// NewRegistry uses config.Palette when palette is empty.
func NewRegistry(palette []string) *Registry {
	if len(palette) == 0 {
		palette = config.Palette
	}
	return &Registry{
		palette:   append([]string(nil), palette...),
		byChannel: make(map[int]int),
	}
}

func (r *Registry) Assign(channel int) models.Line {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.byChannel[channel]; ok {
		return r.lines[idx]
	}

	idx := len(r.lines)
	line := models.Line{
		Channel: channel,
		Colour:  r.palette[idx%len(r.palette)],
	}
	r.lines = append(r.lines, line)
	r.byChannel[channel] = idx
	return line
}

// Lookup returns the identity of a channel without allocating one.
func (r *Registry) Lookup(channel int) (models.Line, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byChannel[channel]
	if !ok {
		return models.Line{}, false
	}
	return r.lines[idx], true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}
