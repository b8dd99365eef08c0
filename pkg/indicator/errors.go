package indicator

import "errors"

var (
	// ErrInvalidSpan is returned when the span of an exponential average is not positive.
	ErrInvalidSpan = errors.New("span must be > 0")

	// ErrInvalidShape is returned when the input array is not one-dimensional.
	ErrInvalidShape = errors.New("x must be a 1D array")

	// ErrInvalidWindow is returned when a rolling window or smoothing length is not positive.
	ErrInvalidWindow = errors.New("window must be > 0")

	// ErrLengthMismatch is returned when the input series of a multi-series indicator differ in length.
	ErrLengthMismatch = errors.New("input series length mismatch")
)
