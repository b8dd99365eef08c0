package csvsource

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/ssrl/fastind/pkg/types"
)

// BarReader is an interface for reading bars.
type BarReader interface {
	Read() (types.Bar, error)
	ReadAll() ([]types.Bar, error)
}

var _ BarReader = (*CSVBarReader)(nil)

// CSVBarReader is a BarReader that reads from a CSV file.
type CSVBarReader struct {
	csv     *csv.Reader
	decoder CSVBarDecoder
}

// MakeCSVBarReader is a factory method type that creates a new CSVBarReader.
type MakeCSVBarReader func(csv *csv.Reader) *CSVBarReader

// NewCSVBarReader creates a new CSVBarReader with the default OHLCV decoder.
func NewCSVBarReader(csv *csv.Reader) *CSVBarReader {
	return &CSVBarReader{
		csv:     csv,
		decoder: OHLCVCSVBarDecoder,
	}
}

// NewCSVBarReaderWithDecoder creates a new CSVBarReader with the given decoder.
func NewCSVBarReaderWithDecoder(csv *csv.Reader, decoder CSVBarDecoder) *CSVBarReader {
	return &CSVBarReader{
		csv:     csv,
		decoder: decoder,
	}
}

// Read reads the next bar from the underlying CSV data, skipping header records.
func (r *CSVBarReader) Read() (types.Bar, error) {
	for {
		rec, err := r.csv.Read()
		if err != nil {
			return types.Bar{}, err
		}

		b, err := r.decoder(rec)
		if errors.Is(err, errHeader) {
			continue
		}

		return b, err
	}
}

// ReadAll reads all the bars from the underlying CSV data.
func (r *CSVBarReader) ReadAll() ([]types.Bar, error) {
	var bars []types.Bar
	for {
		b, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	return bars, nil
}
