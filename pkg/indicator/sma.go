package indicator

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// rolling applies fn over every full window of x. A window that holds a NaN
// is incomplete and yields NaN, the same as pandas' min_periods=window.
func rolling(x []float64, window int, fn func(w []float64) float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}

		w := x[i+1-window : i+1]
		if floats.HasNaN(w) {
			out[i] = math.NaN()
			continue
		}

		out[i] = fn(w)
	}

	return out
}

// SMA is the simple moving average over a trailing window.
func SMA(x []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "sma: window=%d", window)
	}

	return rolling(x, window, func(w []float64) float64 {
		return stat.Mean(w, nil)
	}), nil
}

// RollingSum is the sum over a trailing window.
func RollingSum(x []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "rolling sum: window=%d", window)
	}

	return rolling(x, window, floats.Sum), nil
}

// RollingStd is the sample standard deviation (ddof=1) over a trailing window.
// A window of 1 has no degrees of freedom and yields NaN.
func RollingStd(x []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "rolling std: window=%d", window)
	}

	return rolling(x, window, func(w []float64) float64 {
		if len(w) < 2 {
			return math.NaN()
		}

		return stat.StdDev(w, nil)
	}), nil
}
