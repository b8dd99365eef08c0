package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareBars(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		{Time: t0.Add(2 * time.Hour), Close: 3},
		{Time: t0, Close: 1},
		{Time: t0.Add(time.Hour), Close: 2},
	}

	prepared, err := PrepareBars(bars)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, prepared.Closes())
	assert.Equal(t, t0, prepared.Times()[0])

	// input is left untouched
	assert.Equal(t, 3.0, bars[0].Close)
}

func TestPrepareBars_Empty(t *testing.T) {
	_, err := PrepareBars(nil)
	assert.ErrorIs(t, err, ErrNoBars)
}

func TestBarSeries_Columns(t *testing.T) {
	s := BarSeries{
		{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 20},
	}

	assert.Equal(t, []float64{1, 1.5}, s.Opens())
	assert.Equal(t, []float64{2, 3}, s.Highs())
	assert.Equal(t, []float64{0.5, 1}, s.Lows())
	assert.Equal(t, []float64{1.5, 2.5}, s.Closes())
	assert.Equal(t, []float64{10, 20}, s.Volumes())
}
