package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotser/models"
)

func TestSnapshotEmpty(t *testing.T) {
	frame, ok := New(10, models.Float).Snapshot()
	assert.False(t, ok)
	assert.Nil(t, frame)
}

func TestSnapshotFillsMissingValues(t *testing.T) {
	s := New(8, models.Float)
	s.Ingest([]float64{1.0})
	s.Ingest([]float64{2.0, 5.0})
	s.Ingest(nil)
	s.Ingest([]float64{4.0})

	frame, ok := s.Snapshot()
	require.True(t, ok)

	assert.Equal(t, []int{0, 1, 2, 3}, frame.Ticks)
	assert.Equal(t, []models.Series{
		{Channel: 0, Values: []float64{1, 2, models.MissingValue, 4}},
		{Channel: 1, Values: []float64{models.MissingValue, 5, models.MissingValue, models.MissingValue}},
	}, frame.Series)

	// Filling gaps must not write them back into the histories.
	assert.Equal(t, 3, s.HistoryLen(0))
	assert.Equal(t, 1, s.HistoryLen(1))
}

func TestSnapshotAxisRanges(t *testing.T) {
	s := New(8, models.Float)
	for _, v := range []float64{-2, 10, 3} {
		s.Ingest([]float64{v})
	}

	frame, ok := s.Snapshot()
	require.True(t, ok)

	assert.Equal(t, models.Range{Min: 0, Max: 2 + 8/4}, frame.X)
	assert.Equal(t, -2.0, frame.Y.Min)
	assert.InDelta(t, 10*Y_HEADROOM, frame.Y.Max, 1e-9)
}

func TestSnapshotAfterEviction(t *testing.T) {
	s := New(3, models.Float)
	for _, values := range [][]float64{{1.0}, {2.0, 5.0}, {3.0}, {4.0}} {
		s.Ingest(values)
	}

	frame, ok := s.Snapshot()
	require.True(t, ok)

	assert.Equal(t, []int{1, 2, 3}, frame.Ticks)
	assert.Equal(t, []float64{2, 3, 4}, frame.Series[0].Values)
	assert.Equal(t, []float64{5, 0, 0}, frame.Series[1].Values)
	// 3/4 rounds down to no lookahead.
	assert.Equal(t, models.Range{Min: 1, Max: 3}, frame.X)
}

func TestSnapshotIsIdempotent(t *testing.T) {
	s := New(4, models.Float)
	s.Ingest([]float64{1, 2, 3})
	s.Ingest([]float64{4})

	first, ok := s.Snapshot()
	require.True(t, ok)
	second, ok := s.Snapshot()
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Tick())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(4, models.Float)
	s.Ingest([]float64{1})

	frame, _ := s.Snapshot()
	frame.Ticks[0] = 99
	frame.Series[0].Values[0] = 99

	assert.Equal(t, []int{0}, s.Window())
	v, _ := s.Value(0, 0)
	assert.Equal(t, 1.0, v)
}
