package types

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrNoBars = errors.New("no bars")

// Bar is one OHLCV candle.
type Bar struct {
	Time   time.Time `json:"ts" db:"ts"`
	Open   float64   `json:"open" db:"open"`
	High   float64   `json:"high" db:"high"`
	Low    float64   `json:"low" db:"low"`
	Close  float64   `json:"close" db:"close"`
	Volume float64   `json:"volume" db:"volume"`
}

func (b Bar) String() string {
	return fmt.Sprintf("%s O: %f H: %f L: %f C: %f V: %f",
		b.Time.UTC().Format(time.RFC3339), b.Open, b.High, b.Low, b.Close, b.Volume)
}

type BarSeries []Bar

func (s BarSeries) column(f func(b Bar) float64) []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = f(b)
	}
	return out
}

func (s BarSeries) Opens() []float64   { return s.column(func(b Bar) float64 { return b.Open }) }
func (s BarSeries) Highs() []float64   { return s.column(func(b Bar) float64 { return b.High }) }
func (s BarSeries) Lows() []float64    { return s.column(func(b Bar) float64 { return b.Low }) }
func (s BarSeries) Closes() []float64  { return s.column(func(b Bar) float64 { return b.Close }) }
func (s BarSeries) Volumes() []float64 { return s.column(func(b Bar) float64 { return b.Volume }) }

func (s BarSeries) Times() []time.Time {
	out := make([]time.Time, len(s))
	for i, b := range s {
		out[i] = b.Time
	}
	return out
}

// PrepareBars returns a copy of bars ordered by time. Bars with the same time
// keep their input order.
func PrepareBars(bars []Bar) (BarSeries, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	out := make(BarSeries, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})

	return out, nil
}
