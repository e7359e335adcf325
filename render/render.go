package render

import (
	"context"
	"sort"
	"sync"

	"plotser/models"
)

// Surface is something that can draw lines. Calls between two Redraws build up the next
// picture; Redraw shows it. Run blocks until the surface is closed or ctx is done.
type Surface interface {
	SetTitle(title string)
	SetLine(line models.Line, xs []int, ys []float64)
	SetLimits(x, y models.Range)
	Redraw() error
	Run(ctx context.Context) error
}

// Buffer collects SetTitle, SetLine and SetLimits calls so a surface only has to deal
// with whole pictures. It is safe to use from the render loop while the surface reads.
type Buffer struct {
	mu    sync.Mutex
	title string
	plots map[int]models.Plot
	x, y  models.Range
	seq   int
}

func NewBuffer() *Buffer {
	return &Buffer{plots: make(map[int]models.Plot)}
}

func (b *Buffer) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
}

func (b *Buffer) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// SetLine replaces the data of the line's channel. The slices are kept, not copied.
func (b *Buffer) SetLine(line models.Line, xs []int, ys []float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.plots[line.Channel] = models.Plot{Line: line, Xs: xs, Ys: ys}
}

func (b *Buffer) SetLimits(x, y models.Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.x, b.y = x, y
}

// Picture returns what has been set so far as a new picture, lines ordered by channel.
func (b *Buffer) Picture() *models.Picture {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	plots := make([]models.Plot, 0, len(b.plots))
	for _, p := range b.plots {
		plots = append(plots, p)
	}
	sort.Slice(plots, func(i, j int) bool {
		return plots[i].Line.Channel < plots[j].Line.Channel
	})

	return &models.Picture{
		Seq:   b.seq,
		Title: b.title,
		Plots: plots,
		X:     b.x,
		Y:     b.y,
	}
}
