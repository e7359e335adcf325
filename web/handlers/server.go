package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"plotser/config"
	"plotser/events"
	"plotser/metrics"
	"plotser/models"
	"plotser/render"
)

const shutdownTimeout = 2 * time.Second

// Surface draws pictures in any browser pointed at it. Every Redraw is pushed to all
// connected clients over server sent events.
type Surface struct {
	*render.Buffer

	addr      string
	hub       *events.Hub
	metrics   *metrics.Collector
	logger    *logrus.Logger
	templates *template.Template
	handler   *http.ServeMux

	// shutdown is closed when Run is stopping so long lived streams let go.
	shutdown     chan struct{}
	shutdownOnce sync.Once

	mu sync.Mutex
	// lines seen in the last redraw, for the legend.
	lines []models.Line
	// hidden is clientID -> channel -> hidden.
	hidden map[string]map[int]bool
}

func NewSurface(flags *config.WebFlags, hub *events.Hub, collector *metrics.Collector, logger *logrus.Logger) (*Surface, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if hub == nil {
		hub = events.NewHub()
	}

	templates, err := template.New("").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Surface{
		Buffer:    render.NewBuffer(),
		addr:      flags.Addr,
		hub:       hub,
		metrics:   collector,
		logger:    logger,
		templates: templates,
		shutdown:  make(chan struct{}),
		hidden:    make(map[string]map[int]bool),
	}

	handler := http.NewServeMux()
	handler.HandleFunc("/", s.IndexHandler)
	handler.HandleFunc("/frames", s.FramesHandler)
	handler.HandleFunc("/toggle-channel", s.ToggleChannelHandler)
	handler.Handle("/metrics", collector.Handler())
	s.handler = handler

	return s, nil
}

func (s *Surface) Handler() http.Handler {
	return s.handler
}

// Redraw publishes what has been set since the last redraw to every connected client.
func (s *Surface) Redraw() error {
	picture := s.Picture()

	lines := make([]models.Line, len(picture.Plots))
	for i, p := range picture.Plots {
		lines[i] = p.Line
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	s.hub.Broadcast(picture)
	return nil
}

// Run serves http until ctx is done.
func (s *Surface) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.handler}

	errs := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s …", s.addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serve %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	s.shutdownOnce.Do(func() { close(s.shutdown) })
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// IndexHandler is the main entrypoint for the UI
func (s *Surface) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	clientID := getClientID(w, r)

	data := map[string]any{
		"Title":  s.Title(),
		"Legend": s.legend(clientID),
	}
	if err := s.templates.ExecuteTemplate(w, "index", data); err != nil {
		s.logger.WithError(err).Error("couldn't execute template for index")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

type legendEntry struct {
	models.Line
	Hidden bool
}

func (s *Surface) legend(clientID string) []legendEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]legendEntry, len(s.lines))
	for i, line := range s.lines {
		entries[i] = legendEntry{line, s.hidden[clientID][line.Channel]}
	}
	return entries
}

func (s *Surface) hiddenChannels(clientID string) map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	hidden := make(map[int]bool, len(s.hidden[clientID]))
	for channel, h := range s.hidden[clientID] {
		hidden[channel] = h
	}
	return hidden
}

func (s *Surface) toggleHidden(clientID string, channel int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hidden[clientID]; !ok {
		s.hidden[clientID] = make(map[int]bool)
	}
	s.hidden[clientID][channel] = !s.hidden[clientID][channel]
	return s.hidden[clientID][channel]
}
