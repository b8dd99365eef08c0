package indicator

import "math"

// LogReturn returns ln(close[i]) - ln(close[i-1]); the first value is NaN.
func LogReturn(close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}

		out[i] = math.Log(close[i]) - math.Log(close[i-1])
	}

	return out
}

// Diff returns x[i] - x[i-1]; the first value is NaN.
func Diff(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}

		out[i] = x[i] - x[i-1]
	}

	return out
}
