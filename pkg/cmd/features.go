package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssrl/fastind/pkg/cmd/cmdutil"
	"github.com/ssrl/fastind/pkg/config"
	"github.com/ssrl/fastind/pkg/datasource/csvsource"
	"github.com/ssrl/fastind/pkg/features"
	"github.com/ssrl/fastind/pkg/metrics"
	"github.com/ssrl/fastind/pkg/service"
	"github.com/ssrl/fastind/pkg/style"
	"github.com/ssrl/fastind/pkg/types"
)

// fastind features --csv testdata/BTCUSDT-1h.csv --tail 5
// fastind features --db --symbol BTCUSDT,ETHUSDT --timeframe 1h
// ErrNoBars is returned when the store holds no bars for a symbol in the job window.
var ErrNoBars = errors.New("no bars returned for that instrument/timeframe/date range")

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "build the feature columns of OHLCV bars from a CSV file or the feature store",
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath, err := cmd.Flags().GetString("csv")
		if err != nil {
			return err
		}

		useDB, err := cmd.Flags().GetBool("db")
		if err != nil {
			return err
		}

		switch {
		case csvPath != "" && useDB:
			return errors.New("--csv and --db can not be used together")
		case csvPath != "":
			return runFeaturesFromCSV(cmd, csvPath)
		case useDB:
			return runFeaturesFromDB(cmd)
		default:
			return errors.New("either --csv or --db is required")
		}
	},
}

// fastind features ingest --csv data/binance --format binance --symbol BTCUSDT
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "write the bars of CSV files into the feature store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		csvPath, err := cmd.Flags().GetString("csv")
		if err != nil {
			return err
		}
		if csvPath == "" {
			return errors.New("--csv option is required")
		}

		if !cmd.Flags().Changed("symbol") {
			return errors.New("--symbol option is required")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(cfg.Job.Symbols) != 1 {
			return errors.Errorf("ingest takes exactly one --symbol, got %v", cfg.Job.Symbols)
		}
		symbol := cfg.Job.Symbols[0]

		bars, err := readCSVBars(cmd, csvPath)
		if err != nil {
			return err
		}

		unlock, err := cmdutil.LockDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer unlock()

		db, err := cmdutil.ConnectDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		store := &service.FeatureService{DB: db.DB}
		instrumentID, err := store.EnsureInstrument(ctx, cfg.Job.Exchange, symbol)
		if err != nil {
			return err
		}

		n, err := store.InsertBars(ctx, instrumentID, cfg.Job.Timeframe.String(), bars)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "OK: symbol=%s timeframe=%s bars_upserted=%d\n", symbol, cfg.Job.Timeframe, n)
		return nil
	},
}

func init() {
	featuresCmd.PersistentFlags().String("csv", "", "a CSV file, or a directory of CSV files, holding OHLCV bars")
	featuresCmd.PersistentFlags().String("format", "ohlcv", "the CSV row format: ohlcv or binance")
	featuresCmd.Flags().Bool("db", false, "load the bars from the feature store and write the features back")
	featuresCmd.Flags().String("output", "table", "the output format of --csv mode: table or csv")
	featuresCmd.Flags().Int("tail", 10, "print only the latest n rows in --csv mode, 0 prints all rows")
	featuresCmd.Flags().Int("concurrency", 4, "the number of symbols processed at the same time in --db mode")
	featuresCmd.Flags().String("schedule", "", "keep running and rebuild on this cron schedule in --db mode, e.g. @hourly or \"5 * * * *\"")
	cmdutil.JobFlags(featuresCmd.Flags())
	cmdutil.JobFlags(ingestCmd.Flags())

	featuresCmd.AddCommand(ingestCmd)
	RootCmd.AddCommand(featuresCmd)
}

func csvReaderMaker(format string) (csvsource.MakeCSVBarReader, error) {
	switch format {
	case "", "ohlcv":
		return csvsource.NewOHLCVCSVBarReader, nil
	case "binance":
		return csvsource.NewBinanceCSVBarReader, nil
	}

	return nil, errors.Errorf("unsupported csv format %q", format)
}

func readCSVBars(cmd *cobra.Command, path string) ([]types.Bar, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	maker, err := csvReaderMaker(format)
	if err != nil {
		return nil, err
	}

	return csvsource.ReadBarsFromCSVWithDecoder(path, maker)
}

// csvSymbolLabel names the bars of a csv file by the file name, BTCUSDT-1h.csv
// is counted under BTCUSDT-1h.
func csvSymbolLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runFeaturesFromCSV(cmd *cobra.Command, path string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	tail, err := cmd.Flags().GetInt("tail")
	if err != nil {
		return err
	}

	bars, err := readCSVBars(cmd, path)
	if err != nil {
		return err
	}

	frame, err := features.Build(bars)
	if err != nil {
		return err
	}
	metrics.BarsProcessed.WithLabelValues(csvSymbolLabel(path)).Add(float64(len(bars)))

	if tail > 0 {
		frame = frame.Tail(tail)
	}

	switch output {
	case "table":
		renderFrameTable(cmd.OutOrStdout(), frame)
		return nil
	case "csv":
		return writeFrameCSV(cmd.OutOrStdout(), frame)
	}

	return errors.Errorf("unsupported output format %q", output)
}

func renderFrameTable(w io.Writer, frame *features.Frame) {
	withClose := frame.Closes != nil

	header := table.Row{"ts"}
	if withClose {
		header = append(header, "close")
	}
	for _, name := range frame.Names {
		header = append(header, name)
	}

	t := style.NewTable(w, header)
	for i, ts := range frame.Times {
		row := table.Row{ts.UTC().Format(time.RFC3339)}
		if withClose {
			row = append(row, style.FormatFloat(frame.Closes[i], 2))
		}
		for _, name := range frame.Names {
			row = append(row, style.FormatFloat(frame.Columns[name][i], 6))
		}
		t.AppendRow(row)
	}
	t.Render()
}

// writeFrameCSV writes the frame with prefixed feature column headers.
// Undefined values are left empty.
func writeFrameCSV(w io.Writer, frame *features.Frame) error {
	cw := csv.NewWriter(w)

	header := []string{"ts", "close"}
	for _, name := range frame.Names {
		header = append(header, features.ColumnPrefix+name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	formatValue := func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	for i, ts := range frame.Times {
		record := []string{ts.UTC().Format(time.RFC3339), formatValue(frame.Closes[i])}
		for _, name := range frame.Names {
			record = append(record, formatValue(frame.Columns[name][i]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type featureJobResult struct {
	Symbol string
	Bars   int
	Values int
}

func runFeaturesFromDB(cmd *cobra.Command) error {
	ctx := cmd.Context()

	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}

	schedule, err := cmd.Flags().GetString("schedule")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	unlock, err := cmdutil.LockDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer unlock()

	db, err := cmdutil.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// sqlite serializes writers, parallel transactions only end up in SQLITE_BUSY
	if cfg.Database.Driver == "sqlite3" || concurrency < 1 {
		concurrency = 1
	}

	store := &service.FeatureService{DB: db.DB}
	run := func(ctx context.Context) error {
		logger := log.WithField("run", uuid.New().String())
		logger.Infof("building features of %v %s", cfg.Job.Symbols, cfg.Job.Timeframe)

		ids, err := store.UpsertDefinitions(ctx, features.DefaultDefinitions)
		if err != nil {
			return err
		}

		results, err := runFeatureJobs(ctx, store, cfg.Job, ids, concurrency)
		if err != nil {
			return err
		}

		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "OK: symbol=%s bars=%d feature_values_upserted=%d\n", r.Symbol, r.Bars, r.Values)
		}

		logger.Infof("done")
		return nil
	}

	if schedule == "" {
		return run(ctx)
	}

	return runScheduled(ctx, schedule, run)
}

// runScheduled calls run on every tick of the cron schedule until the
// process receives SIGINT or SIGTERM. A failed run is logged and the next
// tick tries again.
func runScheduled(ctx context.Context, schedule string, run func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := run(ctx); err != nil {
			log.WithError(err).Errorf("scheduled feature build failed")
		}
	}); err != nil {
		return errors.Wrapf(err, "invalid --schedule %q", schedule)
	}

	log.Infof("building features on schedule %q, press ctrl-c to stop", schedule)
	c.Start()
	<-ctx.Done()

	// wait for the running job
	<-c.Stop().Done()
	return nil
}

// runFeatureJobs builds and stores the features of every job symbol. The
// results follow the order of job.Symbols.
func runFeatureJobs(ctx context.Context, store *service.FeatureService, job config.Job, ids map[string]int64, concurrency int) ([]featureJobResult, error) {
	var (
		mu      sync.Mutex
		results = make([]featureJobResult, len(job.Symbols))
	)

	g, subCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, symbol := range job.Symbols {
		g.Go(func() error {
			r, err := runFeatureJob(subCtx, store, job, symbol, ids)
			if err != nil {
				log.WithError(err).WithField("symbol", symbol).Errorf("feature job failed")
				return errors.Wrapf(err, "symbol %s", symbol)
			}

			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func runFeatureJob(ctx context.Context, store *service.FeatureService, job config.Job, symbol string, ids map[string]int64) (featureJobResult, error) {
	logger := log.WithFields(log.Fields{"exchange": job.Exchange, "symbol": symbol, "timeframe": job.Timeframe})
	result := featureJobResult{Symbol: symbol}

	instrumentID, err := store.InstrumentID(ctx, job.Exchange, symbol)
	if err != nil {
		return result, err
	}

	timeframe := job.Timeframe.String()
	bars, err := store.QueryBars(ctx, instrumentID, timeframe, job.Start, job.End)
	if err != nil {
		return result, err
	}

	if len(bars) == 0 {
		return result, errors.Wrapf(ErrNoBars, "%s %s %s", job.Exchange, symbol, timeframe)
	}

	frame, err := features.Build(bars)
	if err != nil {
		return result, err
	}
	metrics.BarsProcessed.WithLabelValues(symbol).Add(float64(len(bars)))

	n, err := store.WriteValues(ctx, frame.Rows(instrumentID, timeframe), ids)
	if err != nil {
		return result, err
	}
	metrics.FeatureValuesWritten.WithLabelValues(symbol).Add(float64(n))

	logger.Infof("built %d features over %d bars, %d values upserted", len(frame.Names), len(bars), n)

	result.Bars = len(bars)
	result.Values = n
	return result, nil
}
