package indicator

import (
	"github.com/pkg/errors"
)

// NDArray is a dense, row-major float64 buffer with an explicit shape.
// A one-dimensional array has a single dimension whose length equals len(Data).
type NDArray struct {
	Shape []int
	Data  []float64
}

// NewArray1D wraps x as a one-dimensional array without copying it.
func NewArray1D(x []float64) NDArray {
	return NDArray{Shape: []int{len(x)}, Data: x}
}

func (a NDArray) NDim() int {
	return len(a.Shape)
}

func (a NDArray) Len() int {
	return len(a.Data)
}

// Is1D reports whether the array has exactly one dimension matching its data.
func (a NDArray) Is1D() bool {
	return len(a.Shape) == 1 && a.Shape[0] == len(a.Data)
}

// EMA computes the exponential moving average of x in the non-adjusted style:
//
//	out[0] = x[0]
//	out[i] = alpha*x[i] + (1-alpha)*out[i-1], alpha = 2/(span+1)
//
// The result is freshly allocated and has the same length as x. An empty x
// yields an empty result. NaN and Inf propagate through the recurrence.
func EMA(x []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.Wrapf(ErrInvalidSpan, "ema: span=%d", span)
	}

	return ema(x, span), nil
}

// EMAArray is EMA over an NDArray. The span is validated first, then the shape.
func EMAArray(a NDArray, span int) (NDArray, error) {
	if span <= 0 {
		return NDArray{}, errors.Wrapf(ErrInvalidSpan, "ema: span=%d", span)
	}

	if !a.Is1D() {
		return NDArray{}, errors.Wrapf(ErrInvalidShape, "ema: shape=%v", a.Shape)
	}

	out := ema(a.Data, span)
	return NDArray{Shape: []int{len(out)}, Data: out}, nil
}

func ema(x []float64, span int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)

	// the explicit conversions round each product, which keeps the compiler
	// from fusing them into an FMA on arm64 and friends.
	out[0] = x[0]
	for i := 1; i < n; i++ {
		out[i] = float64(alpha*x[i]) + float64((1.0-alpha)*out[i-1])
	}

	return out
}
