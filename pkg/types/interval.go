package types

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidInterval = errors.New("invalid interval")

// Interval is the bar timeframe, e.g. 1m, 1h, 1d.
type Interval string

func (i Interval) Minutes() int {
	return SupportedIntervals[i]
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.Minutes()) * time.Minute
}

func (i Interval) Validate() error {
	if _, ok := SupportedIntervals[i]; !ok {
		return errors.Wrapf(ErrInvalidInterval, "interval %q", string(i))
	}

	return nil
}

func (i *Interval) UnmarshalJSON(b []byte) (err error) {
	var a string
	err = json.Unmarshal(b, &a)
	if err != nil {
		return err
	}

	*i = Interval(a)
	return
}

func (i Interval) String() string {
	return string(i)
}

// ParseInterval returns the interval for s or ErrInvalidInterval.
func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	return i, i.Validate()
}

var Interval1m = Interval("1m")
var Interval5m = Interval("5m")
var Interval15m = Interval("15m")
var Interval30m = Interval("30m")
var Interval1h = Interval("1h")
var Interval4h = Interval("4h")
var Interval1d = Interval("1d")

var SupportedIntervals = map[Interval]int{
	Interval1m:  1,
	Interval5m:  5,
	Interval15m: 15,
	Interval30m: 30,
	Interval1h:  60,
	Interval4h:  60 * 4,
	Interval1d:  60 * 24,
}
