package floats

import "math"

type Slice []float64

func New(a ...float64) Slice {
	return Slice(a)
}

func (s *Slice) Push(v float64) {
	*s = append(*s, v)
}

func (s Slice) Length() int {
	return len(s)
}

// Last returns the i-th value counted from the end, 0 being the latest one.
// It returns 0 when the index is out of range.
func (s Slice) Last(i int) float64 {
	l := len(s)
	if i < 0 || i >= l {
		return 0.0
	}

	return s[l-1-i]
}

func (s Slice) Index(i int) float64 {
	return s.Last(i)
}

// Tail returns the latest n values. The returned slice is a copy.
func (s Slice) Tail(n int) Slice {
	l := len(s)
	if n > l {
		n = l
	}

	cp := make(Slice, n)
	copy(cp, s[l-n:])
	return cp
}

// Truncate keeps the latest size values.
func (s Slice) Truncate(size int) Slice {
	if size < 0 || len(s) <= size {
		return s
	}

	return s[len(s)-size:]
}

func (s Slice) Add(b Slice) (c Slice) {
	if len(s) != len(b) {
		return c
	}

	c = make(Slice, len(s))
	for i := 0; i < len(s); i++ {
		c[i] = s[i] + b[i]
	}

	return c
}

func (s Slice) Sub(b Slice) (c Slice) {
	if len(s) != len(b) {
		return c
	}

	c = make(Slice, len(s))
	for i := 0; i < len(s); i++ {
		c[i] = s[i] - b[i]
	}

	return c
}

func (s Slice) CountNaN() (n int) {
	for _, v := range s {
		if math.IsNaN(v) {
			n++
		}
	}

	return n
}

// Finite returns the values that are neither NaN nor infinite.
func (s Slice) Finite() Slice {
	out := make(Slice, 0, len(s))
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		out = append(out, v)
	}

	return out
}
