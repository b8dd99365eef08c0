package indicator

import (
	"math"

	"github.com/pkg/errors"
)

// ExpWeightedMean computes the exponentially weighted mean of x the same way as
// pandas' Series.ewm(alpha=alpha, adjust=False, min_periods=minPeriods).mean().
// Refer: https://pandas.pydata.org/docs/reference/api/pandas.DataFrame.ewm.html
//
// Leading NaNs are skipped. A NaN after the first observation carries the
// current mean forward while the weight of the history keeps decaying.
// The output is NaN until minPeriods non-NaN observations have been seen.
func ExpWeightedMean(x []float64, alpha float64, minPeriods int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	if minPeriods < 1 {
		minPeriods = 1
	}

	var (
		oldWeightFactor = 1.0 - alpha
		newWeight       = alpha
		oldWeight       = 1.0
		weighted        = x[0]
		nobs            = 0
	)

	if !math.IsNaN(weighted) {
		nobs = 1
	}

	out[0] = maskPeriods(weighted, nobs, minPeriods)

	for i := 1; i < n; i++ {
		cur := x[i]
		isObs := !math.IsNaN(cur)
		if isObs {
			nobs++
		}

		if !math.IsNaN(weighted) {
			oldWeight *= oldWeightFactor
			if isObs {
				if weighted != cur {
					weighted = (oldWeight*weighted + newWeight*cur) / (oldWeight + newWeight)
				}

				oldWeight = 1.0
			}
		} else if isObs {
			weighted = cur
		}

		out[i] = maskPeriods(weighted, nobs, minPeriods)
	}

	return out
}

func maskPeriods(v float64, nobs, minPeriods int) float64 {
	if nobs < minPeriods {
		return math.NaN()
	}

	return v
}

// EMAWarmup is the exponential moving average with a warm-up period: the
// values before the span-th observation are NaN.
func EMAWarmup(x []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.Wrapf(ErrInvalidSpan, "ema warmup: span=%d", span)
	}

	return ExpWeightedMean(x, 2.0/(float64(span)+1.0), span), nil
}

// WilderSmooth is Wilder's running moving average (RMA), alpha = 1/window,
// with a warm-up of window observations.
func WilderSmooth(x []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "wilder smoothing: window=%d", window)
	}

	return ExpWeightedMean(x, 1.0/float64(window), window), nil
}
