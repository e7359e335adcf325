package parsing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotser/models"
)

func TestParseFloatLine(t *testing.T) {
	p := NewParser(models.Float)

	values, err := p.Parse("1.0 -2.5\t3e2   4")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2.5, 300, 4}, values)
}

func TestParseEmptyLine(t *testing.T) {
	p := NewParser(models.Float)

	for _, line := range []string{"", "   ", "\t"} {
		values, err := p.Parse(line)
		require.NoError(t, err, "line %q", line)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	}
}

func TestParseRejectsWholeLine(t *testing.T) {
	p := NewParser(models.Float)

	values, err := p.Parse("1.0 abc")
	assert.ErrorIs(t, err, ErrNotData)
	assert.Nil(t, values)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestParseIntMode(t *testing.T) {
	p := NewParser(models.Int)

	values, err := p.Parse("12 -7 0")
	require.NoError(t, err)
	assert.Equal(t, []float64{12, -7, 0}, values)

	_, err = p.Parse("12 1.5")
	assert.ErrorIs(t, err, ErrNotData)
}

func TestParseFloatModeAcceptsIntegers(t *testing.T) {
	values, err := NewParser(models.Float).Parse("3 4")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, values)
}

func TestParseIntModeRoundsHugeValues(t *testing.T) {
	values, err := NewParser(models.Int).Parse("9007199254740993 -9007199254740992")
	require.NoError(t, err)
	assert.Equal(t, []float64{1 << 53, -(1 << 53)}, values)
}

func TestParseFloatModeAcceptsNaN(t *testing.T) {
	values, err := NewParser(models.Float).Parse("nan 1")
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.True(t, math.IsNaN(values[0]))
	assert.Equal(t, 1.0, values[1])
}
