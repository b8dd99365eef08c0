package indicator

import (
	"math"

	"github.com/pkg/errors"
)

func checkLengths(name string, n int, series ...[]float64) error {
	for _, s := range series {
		if len(s) != n {
			return errors.Wrapf(ErrLengthMismatch, "%s: want %d values, got %d", name, n, len(s))
		}
	}

	return nil
}

// TrueRange is max(|high-low|, |high-prevClose|, |low-prevClose|). NaN terms
// are ignored, so the first bar falls back to |high-low|.
func TrueRange(high, low, close []float64) ([]float64, error) {
	if err := checkLengths("true range", len(close), high, low); err != nil {
		return nil, err
	}

	out := make([]float64, len(close))
	for i := range close {
		prevClose := math.NaN()
		if i > 0 {
			prevClose = close[i-1]
		}

		out[i] = nanMax(
			math.Abs(high[i]-low[i]),
			math.Abs(high[i]-prevClose),
			math.Abs(low[i]-prevClose),
		)
	}

	return out, nil
}

func nanMax(values ...float64) float64 {
	m := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}

		if math.IsNaN(m) || v > m {
			m = v
		}
	}

	return m
}

// ATR is Wilder's average true range.
func ATR(high, low, close []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "atr: window=%d", window)
	}

	tr, err := TrueRange(high, low, close)
	if err != nil {
		return nil, err
	}

	return WilderSmooth(tr, window)
}
