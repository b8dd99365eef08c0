package cmdutil

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ssrl/fastind/pkg/config"
	"github.com/ssrl/fastind/pkg/types"
)

// PersistentFlags defines the flags for the feature store connection.
// Unset flags fall back to the config file and the DB_* environment variables.
func PersistentFlags(flags *pflag.FlagSet) {
	flags.String("db-driver", "", "database driver: postgres, mysql or sqlite3")
	flags.String("db-host", "", "database host")
	flags.Int("db-port", 0, "database port")
	flags.String("db-name", "", "database name, or the file path for sqlite3")
	flags.String("db-user", "", "database user")
	flags.String("db-password", "", "database password")
}

// JobFlags defines the flags selecting the bars a command works on.
func JobFlags(flags *pflag.FlagSet) {
	flags.String("exchange", "", "the exchange name of the instrument, e.g. binance")
	flags.StringSlice("symbol", nil, "the instrument symbols, e.g. BTCUSDT,ETHUSDT")
	flags.String("timeframe", "", "the bar timeframe: 1m, 5m, 15m, 30m, 1h, 4h, 1d")
	flags.String("start", "", "the first bar time, RFC3339 or 2006-01-02")
	flags.String("end", "", "the last bar time, RFC3339 or 2006-01-02")
}

// ApplyDatabaseFlags overrides the database settings with the flags set on the command line.
func ApplyDatabaseFlags(flags *pflag.FlagSet, db *config.Database) error {
	strs := map[string]*string{
		"db-driver":   &db.Driver,
		"db-host":     &db.Host,
		"db-name":     &db.Name,
		"db-user":     &db.User,
		"db-password": &db.Password,
	}

	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}

		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Changed("db-port") {
		port, err := flags.GetInt("db-port")
		if err != nil {
			return err
		}
		db.Port = port
	}

	return nil
}

// ApplyJobFlags overrides the job settings with the flags set on the command line.
func ApplyJobFlags(flags *pflag.FlagSet, job *config.Job) error {
	if flags.Changed("exchange") {
		exchange, err := flags.GetString("exchange")
		if err != nil {
			return err
		}
		job.Exchange = exchange
	}

	if flags.Changed("symbol") {
		symbols, err := flags.GetStringSlice("symbol")
		if err != nil {
			return err
		}

		job.Symbols = job.Symbols[:0]
		for _, s := range symbols {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				job.Symbols = append(job.Symbols, s)
			}
		}
	}

	if flags.Changed("timeframe") {
		s, err := flags.GetString("timeframe")
		if err != nil {
			return err
		}

		interval, err := types.ParseInterval(s)
		if err != nil {
			return err
		}
		job.Timeframe = interval
	}

	for name, dst := range map[string]**time.Time{"start": &job.Start, "end": &job.End} {
		if !flags.Changed(name) {
			continue
		}

		s, err := flags.GetString(name)
		if err != nil {
			return err
		}

		t, err := ParseTime(s)
		if err != nil {
			return errors.Wrapf(err, "--%s", name)
		}
		*dst = &t
	}

	return nil
}

// ParseTime accepts an RFC3339 timestamp or a plain date, both read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errors.Errorf("can not parse time %q", s)
}
