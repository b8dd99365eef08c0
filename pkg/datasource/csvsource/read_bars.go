package csvsource

import (
	"encoding/csv"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ssrl/fastind/pkg/types"
)

// ReadBarsFromCSV reads all the .csv files in a given directory or a single
// file into a slice of bars using the OHLCV decoder.
func ReadBarsFromCSV(path string) ([]types.Bar, error) {
	return ReadBarsFromCSVWithDecoder(path, NewOHLCVCSVBarReader)
}

// ReadBarsFromCSVWithDecoder permits using a custom CSVBarReader.
func ReadBarsFromCSVWithDecoder(path string, maker MakeCSVBarReader) ([]types.Bar, error) {
	var bars []types.Bar

	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".csv" {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		//nolint:errcheck // Read ops only so safe to ignore err return
		defer file.Close()

		reader := maker(csv.NewReader(file))
		newBars, err := reader.ReadAll()
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		log.Debugf("read %d bars from %s", len(newBars), path)
		bars = append(bars, newBars...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return bars, nil
}
