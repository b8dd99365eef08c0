package features

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/stat"

	"github.com/ssrl/fastind/pkg/datatype/floats"
)

// Pivot turns long-form values into a wide frame: one row per time, one
// column per feature name (sorted). Missing cells are NaN. When a cell
// appears more than once the first value wins.
func Pivot(values []Value) *Frame {
	var (
		timeIndex = make(map[int64]int)
		times     []time.Time
		nameSet   = make(map[string]struct{})
	)

	sorted := make([]Value, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	for _, v := range sorted {
		key := v.Time.UnixNano()
		if _, ok := timeIndex[key]; !ok {
			timeIndex[key] = len(times)
			times = append(times, v.Time)
		}
		nameSet[v.Feature] = struct{}{}
	}

	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	frame := newFrame(times, nil)
	for _, name := range names {
		col := make([]float64, len(times))
		for i := range col {
			col[i] = math.NaN()
		}
		frame.add(name, col)
	}

	filled := make(map[string]map[int]bool, len(names))
	for _, v := range sorted {
		i := timeIndex[v.Time.UnixNano()]
		if filled[v.Feature] == nil {
			filled[v.Feature] = make(map[int]bool)
		}
		if filled[v.Feature][i] {
			continue
		}

		frame.Columns[v.Feature][i] = v.Value
		filled[v.Feature][i] = true
	}

	return frame
}

// Summary describes the distribution of a feature column.
type Summary struct {
	Count  int
	NaN    int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarizes the finite values of x. Quantiles use linear
// interpolation of the empirical distribution.
func Describe(x []float64) Summary {
	s := floats.Slice(x)
	finite := s.Finite()

	sum := Summary{
		Count: len(finite),
		NaN:   s.CountNaN(),
	}

	if len(finite) == 0 {
		nan := math.NaN()
		sum.Mean, sum.Std, sum.Min, sum.Q25, sum.Median, sum.Q75, sum.Max = nan, nan, nan, nan, nan, nan, nan
		return sum
	}

	sort.Float64s(finite)
	sum.Mean = stat.Mean(finite, nil)
	sum.Std = math.NaN()
	if len(finite) > 1 {
		sum.Std = stat.StdDev(finite, nil)
	}
	sum.Min = finite[0]
	sum.Max = finite[len(finite)-1]
	sum.Q25 = stat.Quantile(0.25, stat.LinInterp, finite, nil)
	sum.Median = stat.Quantile(0.5, stat.LinInterp, finite, nil)
	sum.Q75 = stat.Quantile(0.75, stat.LinInterp, finite, nil)
	return sum
}

// CheckRanges reports the values that fall outside the domain of their
// feature: RSI must stay within [0, 100] and ATR must not be negative.
func CheckRanges(frame *Frame) (err error) {
	if rsi, ok := frame.Column(RSI14); ok {
		bad := 0
		for _, v := range rsi {
			if !math.IsNaN(v) && (v < 0 || v > 100) {
				bad++
			}
		}
		if bad > 0 {
			err = multierr.Append(err, errors.Errorf("%s: %d values outside [0, 100]", RSI14, bad))
		}
	}

	if atr, ok := frame.Column(ATR14); ok {
		bad := 0
		for _, v := range atr {
			if !math.IsNaN(v) && v < 0 {
				bad++
			}
		}
		if bad > 0 {
			err = multierr.Append(err, errors.Errorf("%s: %d negative values", ATR14, bad))
		}
	}

	return err
}
