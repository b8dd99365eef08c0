package features

import (
	"math"
	"time"
)

// Frame is a wide table of feature columns aligned with bar times.
type Frame struct {
	Times   []time.Time
	Closes  []float64
	Names   []string
	Columns map[string][]float64
}

func newFrame(times []time.Time, closes []float64) *Frame {
	return &Frame{
		Times:   times,
		Closes:  closes,
		Columns: make(map[string][]float64),
	}
}

func (f *Frame) add(name string, values []float64) {
	f.Names = append(f.Names, name)
	f.Columns[name] = values
}

func (f *Frame) Len() int {
	return len(f.Times)
}

// Column returns the values of the named feature column.
func (f *Frame) Column(name string) ([]float64, bool) {
	c, ok := f.Columns[name]
	return c, ok
}

// Tail returns a frame holding the latest n rows.
func (f *Frame) Tail(n int) *Frame {
	l := f.Len()
	if n > l {
		n = l
	}
	if n < 0 {
		n = 0
	}

	var closes []float64
	if f.Closes != nil {
		closes = f.Closes[l-n:]
	}

	out := newFrame(f.Times[l-n:], closes)
	for _, name := range f.Names {
		out.add(name, f.Columns[name][l-n:])
	}
	return out
}

// Value is one long-form feature value row.
type Value struct {
	InstrumentID int64     `db:"instrument_id"`
	Timeframe    string    `db:"timeframe"`
	Time         time.Time `db:"ts"`
	Feature      string    `db:"name"`
	Value        float64   `db:"value"`
}

// Rows flattens the frame into long-form values. Undefined (NaN) values are
// skipped.
func (f *Frame) Rows(instrumentID int64, timeframe string) []Value {
	var rows []Value
	for i, ts := range f.Times {
		for _, name := range f.Names {
			v := f.Columns[name][i]
			if math.IsNaN(v) {
				continue
			}

			rows = append(rows, Value{
				InstrumentID: instrumentID,
				Timeframe:    timeframe,
				Time:         ts,
				Feature:      name,
				Value:        v,
			})
		}
	}

	return rows
}
