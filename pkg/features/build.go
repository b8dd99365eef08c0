package features

import (
	"github.com/pkg/errors"

	"github.com/ssrl/fastind/pkg/indicator"
	"github.com/ssrl/fastind/pkg/metrics"
	"github.com/ssrl/fastind/pkg/types"
)

// Build prepares bars and computes the core feature columns, in the order of
// DefaultDefinitions. Every feature is causal: a value only depends on the
// current and previous bars.
func Build(bars []types.Bar) (*Frame, error) {
	series, err := types.PrepareBars(bars)
	if err != nil {
		return nil, err
	}

	var (
		closes  = series.Closes()
		highs   = series.Highs()
		lows    = series.Lows()
		volumes = series.Volumes()
		frame   = newFrame(series.Times(), closes)
	)

	ret := indicator.LogReturn(closes)
	frame.add(Ret1, ret)

	steps := []struct {
		name string
		fn   func() ([]float64, error)
	}{
		{Vol20, func() ([]float64, error) { return indicator.RollingStd(ret, 20) }},
		{SMA20, func() ([]float64, error) { return indicator.SMA(closes, 20) }},
		{EMA20, func() ([]float64, error) { return indicator.EMAWarmup(closes, 20) }},
		{RSI14, func() ([]float64, error) { return indicator.RSI(closes, 14) }},
		{ATR14, func() ([]float64, error) { return indicator.ATR(highs, lows, closes, 14) }},
		{VWAP20, func() ([]float64, error) { return indicator.RollingVWAP(highs, lows, closes, volumes, 20) }},
	}

	for _, step := range steps {
		values, err := step.fn()
		if err != nil {
			metrics.IndicatorErrors.WithLabelValues(step.name).Inc()
			return nil, errors.Wrapf(err, "feature %s", step.name)
		}

		frame.add(step.name, values)
	}

	vwap := frame.Columns[VWAP20]
	dist := make([]float64, len(closes))
	for i := range closes {
		dist[i] = (closes[i] - vwap[i]) / closes[i]
	}
	frame.add(VWAPDist20, dist)

	return frame, nil
}
