package csvsource

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBarsFromCSV(t *testing.T) {
	bars, err := ReadBarsFromCSV("./testdata/ohlcv")
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Time, "Time")
	assert.Equal(t, 28923.63, bars[0].Open, "Open")
	assert.Equal(t, 29031.34, bars[0].High, "High")
	assert.Equal(t, 28690.17, bars[0].Low, "Low")
	assert.Equal(t, 28995.13, bars[0].Close, "Close")
	assert.Equal(t, 2311.81144499, bars[0].Volume, "Volume")
	assert.Equal(t, 29194.65, bars[2].Close)
}

func TestReadBarsFromCSVWithDecoder_Binance(t *testing.T) {
	bars, err := ReadBarsFromCSVWithDecoder("./testdata/binance-1h.csv", NewBinanceCSVBarReader)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, int64(1609459200), bars[0].Time.Unix(), "Time")
	assert.Equal(t, 29409.99, bars[1].Close)
}

func TestOHLCVCSVBarDecoder(t *testing.T) {
	tests := []struct {
		name    string
		record  []string
		wantErr error
		want    float64
	}{
		{
			name:   "rfc3339",
			record: []string{"2026-01-01T00:00:00Z", "1", "2", "0.5", "1.5", "10"},
			want:   1.5,
		},
		{
			name:   "unix milli",
			record: []string{"1767225600000", "1", "2", "0.5", "1.25", "10"},
			want:   1.25,
		},
		{
			name:    "not enough columns",
			record:  []string{"2026-01-01T00:00:00Z", "1", "2"},
			wantErr: ErrNotEnoughColumns,
		},
		{
			name:    "bad time",
			record:  []string{"yesterday", "1", "2", "0.5", "1.5", "10"},
			wantErr: ErrInvalidTimeFormat,
		},
		{
			name:    "bad price",
			record:  []string{"2026-01-01T00:00:00Z", "x", "2", "0.5", "1.5", "10"},
			wantErr: ErrInvalidPriceFormat,
		},
		{
			name:    "bad volume",
			record:  []string{"2026-01-01T00:00:00Z", "1", "2", "0.5", "1.5", "lots"},
			wantErr: ErrInvalidVolumeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OHLCVCSVBarDecoder(tt.record)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Close)
		})
	}
}

func TestCSVBarReader_SkipsHeader(t *testing.T) {
	data := "ts,open,high,low,close,volume\n2026-01-01T00:00:00Z,1,2,0.5,1.5,10\n"
	r := NewCSVBarReader(csv.NewReader(strings.NewReader(data)))
	bars, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 10.0, bars[0].Volume)
}
