package indicator

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ssrl/fastind/pkg/datatype/floats"
)

const MaxNumOfEWMA = 5_000
const MaxNumOfEWMATruncateSize = 100

// EWMAStream is the incremental form of EMA. Fed the same samples, its values
// are identical to EMA(x, Window).
//
//go:generate callbackgen -type EWMAStream
type EWMAStream struct {
	Window int
	Values floats.Slice

	alpha float64

	updateCallbacks []func(value float64)
}

func NewEWMAStream(window int) (*EWMAStream, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidSpan, "ewma stream: window=%d", window)
	}

	return &EWMAStream{
		Window: window,
		alpha:  2.0 / (float64(window) + 1.0),
	}, nil
}

func (s *EWMAStream) Update(value float64) {
	if len(s.Values) == 0 {
		s.Values.Push(value)
		s.EmitUpdate(value)
		return
	} else if len(s.Values) > MaxNumOfEWMA {
		log.Debugf("ewma(%d): truncating %d values to %d", s.Window, len(s.Values), MaxNumOfEWMATruncateSize)
		s.Values = s.Values.Truncate(MaxNumOfEWMATruncateSize)
	}

	v := float64(s.alpha*value) + float64((1.0-s.alpha)*s.Values.Last(0))
	s.Values.Push(v)
	s.EmitUpdate(v)
}

// PushAll feeds every value of x in order.
func (s *EWMAStream) PushAll(x []float64) {
	for _, v := range x {
		s.Update(v)
	}
}

func (s *EWMAStream) Last(i int) float64 {
	return s.Values.Last(i)
}

func (s *EWMAStream) Index(i int) float64 {
	return s.Last(i)
}

func (s *EWMAStream) Length() int {
	return len(s.Values)
}
