package indicator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEWMAStream_MatchesEMA(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	x := make([]float64, 500)
	for i := range x {
		x[i] = 100 + rnd.NormFloat64()
	}

	for _, window := range []int{1, 5, 20} {
		s, err := NewEWMAStream(window)
		require.NoError(t, err)

		var emitted []float64
		s.OnUpdate(func(v float64) {
			emitted = append(emitted, v)
		})
		s.PushAll(x)

		want, err := EMA(x, window)
		require.NoError(t, err)
		assert.Equal(t, want, []float64(s.Values))
		assert.Equal(t, want, emitted)
		assert.Equal(t, want[len(want)-1], s.Last(0))
		assert.Equal(t, want[len(want)-2], s.Index(1))
	}
}

func TestEWMAStream_Truncate(t *testing.T) {
	s, err := NewEWMAStream(3)
	require.NoError(t, err)

	for i := 0; i < MaxNumOfEWMA+10; i++ {
		s.Update(float64(i))
	}

	assert.LessOrEqual(t, s.Length(), MaxNumOfEWMA+1)
	assert.Greater(t, s.Last(0), s.Last(1))
}

func TestNewEWMAStream_InvalidWindow(t *testing.T) {
	_, err := NewEWMAStream(0)
	assert.ErrorIs(t, err, ErrInvalidSpan)
}
