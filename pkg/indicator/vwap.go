package indicator

import (
	"github.com/pkg/errors"
)

// TypicalPrice is (high + low + close) / 3.
func TypicalPrice(high, low, close []float64) ([]float64, error) {
	if err := checkLengths("typical price", len(close), high, low); err != nil {
		return nil, err
	}

	out := make([]float64, len(close))
	for i := range close {
		out[i] = (high[i] + low[i] + close[i]) / 3.0
	}

	return out, nil
}

// RollingVWAP approximates the volume weighted average price of the trailing
// window from bars: sum(typical price * volume) / sum(volume).
func RollingVWAP(high, low, close, volume []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "vwap: window=%d", window)
	}

	if err := checkLengths("vwap", len(close), volume); err != nil {
		return nil, err
	}

	tp, err := TypicalPrice(high, low, close)
	if err != nil {
		return nil, err
	}

	pv := make([]float64, len(tp))
	for i := range tp {
		pv[i] = tp[i] * volume[i]
	}

	pvSum, err := RollingSum(pv, window)
	if err != nil {
		return nil, err
	}

	volSum, err := RollingSum(volume, window)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(tp))
	for i := range out {
		out[i] = pvSum[i] / volSum[i]
	}

	return out, nil
}
