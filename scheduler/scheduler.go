package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"plotser/config"
	"plotser/drivers"
	"plotser/lines"
	"plotser/metrics"
	"plotser/parsing"
	"plotser/render"
	"plotser/store"
)

// Scheduler runs the two halves of plotser side by side: reading lines into the store as
// fast as the source allows, and drawing the store on a fixed period. Both only meet in
// the store, which serialises them.
type Scheduler struct {
	source  drivers.Source
	parser  *parsing.Parser
	store   *store.Store
	lines   *lines.Registry
	surface render.Surface
	metrics *metrics.Collector
	logger  *logrus.Logger

	renderPeriod time.Duration
	readTimeout  time.Duration

	closeOnce sync.Once
}

func New(
	flags *config.Flags,
	source drivers.Source,
	st *store.Store,
	registry *lines.Registry,
	surface render.Surface,
	collector *metrics.Collector,
	logger *logrus.Logger,
) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	renderPeriod := flags.RenderPeriod
	if renderPeriod <= 0 {
		renderPeriod = config.DEFAULT_RENDER_PERIOD
	}
	readTimeout := flags.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = config.DEFAULT_READ_TIMEOUT
	}
	return &Scheduler{
		source:       source,
		parser:       parsing.NewParser(flags.Mode),
		store:        st,
		lines:        registry,
		surface:      surface,
		metrics:      collector,
		logger:       logger,
		renderPeriod: renderPeriod,
		readTimeout:  readTimeout,
	}
}

// Run blocks until the surface closes, ctx is done or reading fails. Whichever comes
// first stops everything else, and the source is closed before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.ingestLoop(groupCtx)
	})
	group.Go(func() error {
		return s.renderLoop(groupCtx)
	})
	group.Go(func() error {
		// The surface closing is the normal way out.
		defer cancel()
		return s.surface.Run(groupCtx)
	})

	return group.Wait()
}

// Close closes the source. Only the first call does anything.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		if s.source == nil {
			return
		}
		if err := s.source.Close(); err != nil {
			s.logger.WithError(err).WithField("source", s.source.Name()).Warn("couldn't close source")
		}
	})
}

func (s *Scheduler) ingestLoop(ctx context.Context) error {
	if s.source == nil {
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := s.source.ReadLine(s.readTimeout)
		switch {
		case errors.Is(err, drivers.ErrReadTimeout):
			s.metrics.ReadTimeout()
			continue
		case errors.Is(err, io.EOF):
			s.logger.WithField("source", s.source.Name()).Info("end of input")
			return nil
		case err != nil:
			return fmt.Errorf("read %s: %w", s.source.Name(), err)
		}

		s.IngestLine(line)
	}
}

// IngestLine parses line and stores it. It returns the tick used, or false if the line
// wasn't data and was skipped.
func (s *Scheduler) IngestLine(line string) (int, bool) {
	s.metrics.LineRead()
	s.logger.WithField("line", line).Debug("read")

	values, err := s.parser.Parse(line)
	if err != nil {
		s.metrics.ParseFailure()
		s.logger.WithError(err).WithField("line", line).Debug("skipping line")
		return 0, false
	}

	tick := s.store.Ingest(values)
	s.metrics.Ingested(s.store.Len(), s.store.Channels())
	return tick, true
}

func (s *Scheduler) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.renderPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RenderOnce(); err != nil {
				// Surface trouble is the surface's business, try again next tick.
				s.logger.WithError(err).Warn("couldn't redraw")
			}
		}
	}
}

// RenderOnce pushes the current store contents to the surface. It returns false without
// touching the surface when there is nothing to draw yet.
func (s *Scheduler) RenderOnce() (bool, error) {
	frame, ok := s.store.Snapshot()
	if !ok {
		return false, nil
	}

	for _, series := range frame.Series {
		s.surface.SetLine(s.lines.Assign(series.Channel), frame.Ticks, series.Values)
	}
	s.surface.SetLimits(frame.X, frame.Y)

	if err := s.surface.Redraw(); err != nil {
		return true, err
	}
	s.metrics.Redraw()
	return true, nil
}
