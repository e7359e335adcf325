package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotser/config"
	"plotser/drivers"
	"plotser/lines"
	"plotser/metrics"
	"plotser/models"
	"plotser/render"
	"plotser/store"
)

type readResult struct {
	line string
	err  error
}

// fakeSource plays back results in order, then times out forever.
type fakeSource struct {
	mu      sync.Mutex
	results []readResult
	closed  atomic.Int32
}

func (f *fakeSource) Open() error  { return nil }
func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) ReadLine(timeout time.Duration) (string, error) {
	f.mu.Lock()
	if len(f.results) > 0 {
		r := f.results[0]
		f.results = f.results[1:]
		f.mu.Unlock()
		return r.line, r.err
	}
	f.mu.Unlock()
	time.Sleep(timeout)
	return "", drivers.ErrReadTimeout
}

func (f *fakeSource) Close() error {
	f.closed.Add(1)
	return nil
}

type fakeSurface struct {
	*render.Buffer
	mu       sync.Mutex
	pictures []*models.Picture
	quit     chan struct{}
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{Buffer: render.NewBuffer(), quit: make(chan struct{})}
}

func (f *fakeSurface) Redraw() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pictures = append(f.pictures, f.Picture())
	return nil
}

func (f *fakeSurface) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-f.quit:
	}
	return nil
}

func (f *fakeSurface) redraws() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pictures)
}

func (f *fakeSurface) last() *models.Picture {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pictures) == 0 {
		return nil
	}
	return f.pictures[len(f.pictures)-1]
}

func testFlags() *config.Flags {
	return &config.Flags{
		Surface:      config.Terminal,
		Mode:         models.Float,
		WindowSize:   4,
		RenderPeriod: 5 * time.Millisecond,
		ReadTimeout:  5 * time.Millisecond,
	}
}

func newTestScheduler(source drivers.Source, surface *fakeSurface) (*Scheduler, *store.Store) {
	flags := testFlags()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	st := store.New(flags.WindowSize, flags.Mode)
	return New(flags, source, st, lines.NewRegistry(nil), surface, metrics.NewCollector(), logger), st
}

func TestIngestLine(t *testing.T) {
	s, st := newTestScheduler(nil, newFakeSurface())

	tick, ok := s.IngestLine("1.0 2.0")
	assert.True(t, ok)
	assert.Equal(t, 0, tick)

	_, ok = s.IngestLine("1.0 abc")
	assert.False(t, ok)
	assert.Equal(t, 1, st.Tick(), "a bad line must not take a tick")
	assert.Equal(t, []int{0}, st.Window())
	assert.Equal(t, models.Bounds{Min: 0, Max: 2}, st.Bounds())

	tick, ok = s.IngestLine("")
	assert.True(t, ok)
	assert.Equal(t, 1, tick)
}

func TestRenderOnceNothingToDraw(t *testing.T) {
	surface := newFakeSurface()
	s, _ := newTestScheduler(nil, surface)

	drawn, err := s.RenderOnce()
	require.NoError(t, err)
	assert.False(t, drawn)
	assert.Equal(t, 0, surface.redraws())
}

func TestRenderOnce(t *testing.T) {
	surface := newFakeSurface()
	s, _ := newTestScheduler(nil, surface)
	s.IngestLine("1")
	s.IngestLine("2 5")

	drawn, err := s.RenderOnce()
	require.NoError(t, err)
	require.True(t, drawn)

	picture := surface.last()
	require.NotNil(t, picture)
	require.Len(t, picture.Plots, 2)
	assert.Equal(t, models.Line{Channel: 0, Colour: config.RED}, picture.Plots[0].Line)
	assert.Equal(t, models.Line{Channel: 1, Colour: config.GREEN}, picture.Plots[1].Line)
	assert.Equal(t, []int{0, 1}, picture.Plots[0].Xs)
	assert.Equal(t, []float64{1, 2}, picture.Plots[0].Ys)
	assert.Equal(t, []float64{0, 5}, picture.Plots[1].Ys)
	assert.Equal(t, models.Range{Min: 0, Max: 2}, picture.X)
	assert.InDelta(t, 5.5, picture.Y.Max, 1e-9)
}

func TestRunUntilSurfaceCloses(t *testing.T) {
	source := &fakeSource{results: []readResult{
		{line: "1"}, {line: "junk"}, {line: "2 3"}, {line: "4"},
	}}
	surface := newFakeSurface()
	s, st := newTestScheduler(source, surface)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		picture := surface.last()
		return picture != nil && len(picture.Plots) == 2 && len(picture.Plots[0].Xs) == 3
	}, time.Second, time.Millisecond)

	close(surface.quit)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run didn't return after the surface closed")
	}

	assert.Equal(t, int32(1), source.closed.Load())
	assert.Equal(t, []int{0, 1, 2}, st.Window())
	s.Close()
	assert.Equal(t, int32(1), source.closed.Load())
}

func TestRunStopsOnReadError(t *testing.T) {
	boom := errors.New("device gone")
	source := &fakeSource{results: []readResult{{line: "1"}, {err: boom}}}
	s, _ := newTestScheduler(source, newFakeSurface())

	err := s.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), source.closed.Load())
}

func TestRunKeepsRenderingAfterEOF(t *testing.T) {
	source := &fakeSource{results: []readResult{{line: "1"}, {line: "2"}, {err: io.EOF}}}
	surface := newFakeSurface()
	s, st := newTestScheduler(source, surface)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return surface.redraws() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, 2, st.Len())

	cancel()
	assert.NoError(t, <-done)
	assert.Equal(t, int32(1), source.closed.Load())
}

func TestTimeoutsDoNotIngest(t *testing.T) {
	source := &fakeSource{}
	surface := newFakeSurface()
	s, st := newTestScheduler(source, surface)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, 0, st.Tick())
	assert.Equal(t, 0, surface.redraws())
}

func TestRunWithoutSource(t *testing.T) {
	s, _ := newTestScheduler(nil, newFakeSurface())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, s.Run(ctx))
}
