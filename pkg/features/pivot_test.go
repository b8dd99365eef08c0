package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestPivot(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	frame := Pivot([]Value{
		{Time: t1, Feature: "sma_20", Value: 2},
		{Time: t0, Feature: "ret_1", Value: 0.1},
		{Time: t1, Feature: "ret_1", Value: 0.2},
		{Time: t1, Feature: "ret_1", Value: 99},
	})

	assert.Equal(t, []time.Time{t0, t1}, frame.Times)
	assert.Equal(t, []string{"ret_1", "sma_20"}, frame.Names)

	ret, _ := frame.Column("ret_1")
	assert.Equal(t, []float64{0.1, 0.2}, ret)

	sma, _ := frame.Column("sma_20")
	assert.True(t, math.IsNaN(sma[0]))
	assert.Equal(t, 2.0, sma[1])
}

func TestPivot_RoundTrip(t *testing.T) {
	frame, err := Build(makeBars(40))
	require.NoError(t, err)

	wide := Pivot(frame.Rows(1, "1h"))
	sma, _ := frame.Column(SMA20)
	wideSMA, ok := wide.Column(SMA20)
	require.True(t, ok)

	// the first bar has no defined value at all, so the pivot starts one bar later
	require.Equal(t, frame.Times[1:], wide.Times)
	for i, v := range wideSMA {
		if math.IsNaN(sma[i+1]) {
			assert.True(t, math.IsNaN(v))
			continue
		}
		assert.Equal(t, sma[i+1], v)
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, math.NaN(), 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1, s.NaN)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 1.2909944, s.Std, 1e-6)
	assert.LessOrEqual(t, s.Q25, s.Median)
	assert.LessOrEqual(t, s.Median, s.Q75)

	empty := Describe([]float64{math.NaN()})
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, 1, empty.NaN)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestCheckRanges(t *testing.T) {
	frame, err := Build(makeBars(60))
	require.NoError(t, err)
	assert.NoError(t, CheckRanges(frame))

	frame.Columns[RSI14][30] = 120
	frame.Columns[RSI14][31] = -1
	frame.Columns[ATR14][40] = -0.5

	err = CheckRanges(frame)
	require.Error(t, err)
	if errs := multierr.Errors(err); assert.Len(t, errs, 2) {
		assert.EqualError(t, errs[0], "rsi_14: 2 values outside [0, 100]")
		assert.EqualError(t, errs[1], "atr_14: 1 negative values")
	}
}
