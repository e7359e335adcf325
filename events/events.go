package events

import (
	"sync"

	"plotser/models"
)

// Hub fans pictures out to every subscriber. A subscriber that falls behind misses
// pictures rather than holding up the render loop.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan *models.Picture
	next int
	last *models.Picture
}

func NewHub() *Hub {
	return &Hub{subs: map[int]chan *models.Picture{}}
}

// Subscribe registers a new listener. The most recent picture, if any, is delivered
// straight away so new clients don't start blank.
func (h *Hub) Subscribe() (int, <-chan *models.Picture, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan *models.Picture, 4)
	if h.last != nil {
		ch <- h.last
	}
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			close(c)
			delete(h.subs, id)
		}
	}
	return id, ch, cancel
}

// Broadcast hands picture to every subscriber. Pictures are shared between subscribers
// and must not be modified after this call.
func (h *Hub) Broadcast(picture *models.Picture) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = picture
	for _, ch := range h.subs {
		select {
		case ch <- picture:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
