package indicator

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
python:

import pandas as pd

data = pd.Series([0,1,2,3,4,5,6,7,8,9,0,1,2,3,4,5,6,7,8,9,0,1,2,3,4,5,6,7,8,9])
print(data.rolling(window=5, min_periods=5).mean())
*/
func Test_SMA(t *testing.T) {
	Delta := 0.001
	var randomPrices = []byte(`[0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9]`)
	var input []float64
	if err := json.Unmarshal(randomPrices, &input); err != nil {
		panic(err)
	}

	tests := []struct {
		name   string
		input  []float64
		window int
		want   float64
		next   float64
		nan    int
	}{
		{
			name:   "window 5",
			input:  input,
			window: 5,
			want:   7.0,
			next:   6.0,
			nan:    4,
		},
		{
			name:   "window 1",
			input:  input,
			window: 1,
			want:   9.0,
			next:   8.0,
			nan:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sma, err := SMA(tt.input, tt.window)
			require.NoError(t, err)
			require.Len(t, sma, len(tt.input))

			assert.InDelta(t, tt.want, sma[len(sma)-1], Delta)
			assert.InDelta(t, tt.next, sma[len(sma)-2], Delta)
			for i := 0; i < tt.nan; i++ {
				assert.True(t, math.IsNaN(sma[i]), "index %d", i)
			}
			assert.False(t, math.IsNaN(sma[tt.nan]))
		})
	}
}

func TestSMA_NaNInWindow(t *testing.T) {
	sma, err := SMA([]float64{1, 2, math.NaN(), 4, 5, 6}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(sma[0]))
	assert.Equal(t, 1.5, sma[1])
	assert.True(t, math.IsNaN(sma[2]))
	assert.True(t, math.IsNaN(sma[3]))
	assert.Equal(t, 4.5, sma[4])
	assert.Equal(t, 5.5, sma[5])
}

func TestSMA_InvalidWindow(t *testing.T) {
	_, err := SMA([]float64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = RollingSum([]float64{1}, -2)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = RollingStd([]float64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestRollingStd(t *testing.T) {
	std, err := RollingStd([]float64{1, 2, 3, 4, 6}, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(std[0]))
	assert.True(t, math.IsNaN(std[1]))
	assert.InDelta(t, 1.0, std[2], 1e-12)
	assert.InDelta(t, 1.0, std[3], 1e-12)
	assert.InDelta(t, math.Sqrt(7.0/3.0), std[4], 1e-12)

	std, err = RollingStd([]float64{1, 2}, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(std[0]))
	assert.True(t, math.IsNaN(std[1]))
}

func TestRollingSum(t *testing.T) {
	sum, err := RollingSum([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(sum[0]))
	assert.Equal(t, []float64{3, 5, 7}, sum[1:])
}
