package csvsource

import (
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ssrl/fastind/pkg/types"
)

var (
	// ErrNotEnoughColumns is returned when the CSV price record does not have enough columns.
	ErrNotEnoughColumns = errors.New("not enough columns")

	// ErrInvalidTimeFormat is returned when the CSV time column is neither RFC3339 nor unix milliseconds.
	ErrInvalidTimeFormat = errors.New("cannot parse time string")

	// ErrInvalidPriceFormat is returned when the CSV price record does not have prices in expected format.
	ErrInvalidPriceFormat = errors.New("OHLC prices must be in valid decimal format")

	// ErrInvalidVolumeFormat is returned when the CSV price record does not have a valid volume format.
	ErrInvalidVolumeFormat = errors.New("volume must be in valid float format")

	// errHeader marks a header record, the reader skips it.
	errHeader = errors.New("header record")
)

// CSVBarDecoder is an extension point for CSVBarReader to support custom file formats.
type CSVBarDecoder func(record []string) (types.Bar, error)

// NewOHLCVCSVBarReader creates a new CSVBarReader for ts,open,high,low,close,volume files.
func NewOHLCVCSVBarReader(csv *csv.Reader) *CSVBarReader {
	return &CSVBarReader{
		csv:     csv,
		decoder: OHLCVCSVBarDecoder,
	}
}

// OHLCVCSVBarDecoder decodes a ts,open,high,low,close,volume record. The ts
// column accepts RFC3339 timestamps or unix milliseconds. A record whose first
// column is "ts" is treated as the header.
func OHLCVCSVBarDecoder(record []string) (types.Bar, error) {
	var b types.Bar

	if len(record) < 6 {
		return b, ErrNotEnoughColumns
	}

	if strings.EqualFold(strings.TrimSpace(record[0]), "ts") {
		return b, errHeader
	}

	ts, err := parseTime(record[0])
	if err != nil {
		return b, err
	}

	return decodeOHLCV(ts, record[1:6])
}

// NewBinanceCSVBarReader creates a new CSVBarReader for Binance kline dumps.
func NewBinanceCSVBarReader(csv *csv.Reader) *CSVBarReader {
	return &CSVBarReader{
		csv:     csv,
		decoder: BinanceCSVBarDecoder,
	}
}

// BinanceCSVBarDecoder decodes a CSV record from a Binance or Bybit kline dump:
// open time in milliseconds followed by open, high, low, close and volume.
func BinanceCSVBarDecoder(record []string) (types.Bar, error) {
	var b types.Bar

	if len(record) < 6 {
		return b, ErrNotEnoughColumns
	}

	msec, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return b, ErrInvalidTimeFormat
	}

	return decodeOHLCV(time.UnixMilli(msec).UTC(), record[1:6])
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if msec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(msec).UTC(), nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidTimeFormat
}

func decodeOHLCV(ts time.Time, cols []string) (types.Bar, error) {
	var (
		b      = types.Bar{Time: ts}
		prices [4]float64
	)

	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(cols[i]), 64)
		if err != nil {
			return types.Bar{}, ErrInvalidPriceFormat
		}
		prices[i] = v
	}

	volume, err := strconv.ParseFloat(strings.TrimSpace(cols[4]), 64)
	if err != nil {
		return types.Bar{}, ErrInvalidVolumeFormat
	}

	b.Open, b.High, b.Low, b.Close = prices[0], prices[1], prices[2], prices[3]
	b.Volume = volume
	return b, nil
}
