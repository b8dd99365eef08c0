package cmd

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/heroku/rollrus"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ssrl/fastind/pkg/cmd/cmdutil"
	"github.com/ssrl/fastind/pkg/config"
	"github.com/ssrl/fastind/pkg/envvar"
)

var RootCmd = &cobra.Command{
	Use:   "fastind",
	Short: "fastind feature builder",
	Long:  "compute technical indicator features from OHLCV bars and keep them in a feature store",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotenv(viper.GetString("dotenv")); err != nil {
			return err
		}

		setupLogging(viper.GetBool("debug"))

		if bind := viper.GetString("metrics-bind"); bind != "" {
			go serveMetrics(bind)
		}

		if addr, ok := envvar.String("PYROSCOPE_SERVER"); ok {
			p, err := pyroscope.Start(pyroscope.Config{
				ApplicationName: "fastind",
				ServerAddress:   addr,
				Tags:            map[string]string{"env": envvar.Environment()},
			})
			if err != nil {
				return errors.Wrap(err, "start pyroscope profiler")
			}
			profiler = p
		}

		return nil
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if profiler != nil {
			return profiler.Stop()
		}
		return nil
	},
}

var profiler *pyroscope.Profiler

func init() {
	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	RootCmd.PersistentFlags().String("config", "", "config file")
	RootCmd.PersistentFlags().String("dotenv", "", "the dotenv file to load, defaults to .env.local and .env")
	RootCmd.PersistentFlags().String("metrics-bind", "", "serve prometheus metrics on this address, e.g. :9090")

	cmdutil.PersistentFlags(RootCmd.PersistentFlags())
}

// loadDotenv loads the given dotenv file, or .env.local and .env when they
// exist. Variables already set in the environment are never overridden.
func loadDotenv(file string) error {
	if file != "" {
		return errors.Wrapf(godotenv.Load(file), "load dotenv file %s", file)
	}

	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "load dotenv file %s", f)
		}
	}

	return nil
}

func setupLogging(debug bool) {
	log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})

	logger := log.StandardLogger()
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	if envvar.IsProduction() {
		logDir, _ := envvar.String("LOG_DIR", "log")
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "fastind.log"),
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     28, // days
		}

		logger.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					log.DebugLevel: writer,
					log.InfoLevel:  writer,
					log.WarnLevel:  writer,
					log.ErrorLevel: writer,
					log.FatalLevel: writer,
				},
				&log.JSONFormatter{},
			),
		)
	}

	if token, ok := envvar.String("ROLLBAR_TOKEN"); ok {
		logger.AddHook(rollrus.NewHook(token, envvar.Environment()))
	}
}

func serveMetrics(bind string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Infof("serving metrics on %s/metrics", bind)
	if err := http.ListenAndServe(bind, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Errorf("metrics server error")
	}
}

// loadConfig reads the config file named by --config, then applies the
// database and job flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}

	if err := cmdutil.ApplyDatabaseFlags(cmd.Flags(), &cfg.Database); err != nil {
		return nil, err
	}

	if cmd.Flags().Lookup("timeframe") != nil {
		if err := cmdutil.ApplyJobFlags(cmd.Flags(), &cfg.Job); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func Execute() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}
