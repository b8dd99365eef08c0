package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseInterval(t *testing.T) {
	i, err := ParseInterval("1h")
	assert.NoError(t, err)
	assert.Equal(t, Interval1h, i)
	assert.Equal(t, time.Hour, i.Duration())
	assert.Equal(t, 24*time.Hour, Interval1d.Duration())

	_, err = ParseInterval("7m")
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.EqualError(t, err, `interval "7m": invalid interval`)
}

func TestInterval_UnmarshalJSON(t *testing.T) {
	var i Interval
	assert.NoError(t, json.Unmarshal([]byte(`"15m"`), &i))
	assert.Equal(t, Interval15m, i)
	assert.Equal(t, 15, i.Minutes())
}
