package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/ssrl/fastind/pkg/types"
)

type Database struct {
	Driver   string `json:"driver" yaml:"driver"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Name     string `json:"name" yaml:"name"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`

	// SSLMode is only used by the postgres driver
	SSLMode string `json:"sslMode,omitempty" yaml:"sslMode,omitempty"`
}

// DSN renders the data source name for the configured driver.
func (d Database) DSN() string {
	switch d.Driver {
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
		cfg.DBName = d.Name
		cfg.ParseTime = true
		return cfg.FormatDSN()

	case "sqlite3":
		return d.Name

	default:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:   "/" + d.Name,
		}

		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u.RawQuery = url.Values{"sslmode": []string{sslMode}}.Encode()
		return u.String()
	}
}

// Job selects the bars the feature builder works on.
type Job struct {
	Exchange  string         `json:"exchange" yaml:"exchange"`
	Symbols   []string       `json:"symbols" yaml:"symbols"`
	Timeframe types.Interval `json:"timeframe" yaml:"timeframe"`
	Start     *time.Time     `json:"start,omitempty" yaml:"start,omitempty"`
	End       *time.Time     `json:"end,omitempty" yaml:"end,omitempty"`
}

type Config struct {
	Database Database `json:"database" yaml:"database"`
	Job      Job      `json:"job" yaml:"job"`
}

func Default() *Config {
	return &Config{
		Database: Database{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			Name:     "ssrl",
			User:     "ssrl",
			Password: "ssrl",
		},
		Job: Job{
			Exchange:  "binance",
			Symbols:   []string{"BTCUSDT"},
			Timeframe: types.Interval1h,
		},
	}
}

// Load reads the YAML config file on top of the defaults, then applies the
// DB_* environment variables. An empty path only applies the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, errors.Wrapf(err, "yaml parsing error, config file: %s", path)
		}
	}

	if err := cfg.Database.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides the database settings with the DB_* variables found by lookup.
func (d *Database) ApplyEnv(lookup func(key string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("DB_DRIVER", &d.Driver)
	str("DB_HOST", &d.Host)
	str("DB_NAME", &d.Name)
	str("DB_USER", &d.User)
	str("DB_PASSWORD", &d.Password)
	str("DB_SSLMODE", &d.SSLMode)

	if v, ok := lookup("DB_PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "invalid DB_PORT %q", v)
		}
		d.Port = port
	}

	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() (err error) {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite3":
	default:
		err = multierr.Append(err, errors.Errorf("unsupported database driver %q", c.Database.Driver))
	}

	if c.Database.Driver != "sqlite3" && (c.Database.Port <= 0 || c.Database.Port > 65535) {
		err = multierr.Append(err, errors.Errorf("invalid database port %d", c.Database.Port))
	}

	if c.Database.Name == "" {
		err = multierr.Append(err, errors.New("database name is required"))
	}

	if c.Job.Exchange == "" {
		err = multierr.Append(err, errors.New("job exchange is required"))
	}

	if len(c.Job.Symbols) == 0 {
		err = multierr.Append(err, errors.New("at least one job symbol is required"))
	}

	if verr := c.Job.Timeframe.Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}

	if c.Job.Start != nil && c.Job.End != nil && c.Job.End.Before(*c.Job.Start) {
		err = multierr.Append(err, errors.Errorf("job end %s is before start %s", c.Job.End, c.Job.Start))
	}

	return err
}
