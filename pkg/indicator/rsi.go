package indicator

import (
	"math"

	"github.com/pkg/errors"
)

// RSI is Wilder's relative strength index. Gains and losses are smoothed with
// WilderSmooth, so the first defined value sits at index window.
//
// With IEEE semantics a zero average loss gives 100 and a flat series
// (zero gain and zero loss) gives NaN.
func RSI(close []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "rsi: window=%d", window)
	}

	delta := Diff(close)
	gains := make([]float64, len(delta))
	losses := make([]float64, len(delta))
	for i, d := range delta {
		if math.IsNaN(d) {
			gains[i], losses[i] = d, d
			continue
		}

		gains[i] = math.Max(d, 0)
		losses[i] = math.Max(-d, 0)
	}

	avgGain, err := WilderSmooth(gains, window)
	if err != nil {
		return nil, err
	}

	avgLoss, err := WilderSmooth(losses, window)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(close))
	for i := range out {
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100.0 - (100.0 / (1.0 + rs))
	}

	return out, nil
}
