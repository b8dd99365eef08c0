package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ssrl/fastind/pkg/cmd/cmdutil"
	"github.com/ssrl/fastind/pkg/config"
	"github.com/ssrl/fastind/pkg/features"
	"github.com/ssrl/fastind/pkg/service"
	"github.com/ssrl/fastind/pkg/style"
)

var warnColor = color.New(color.FgHiRed)

// fastind validate --symbol BTCUSDT --limit 120
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "summarize the stored feature values of the latest bars",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		if limit <= 0 {
			return errors.Errorf("--limit must be > 0, got %d", limit)
		}

		tail, err := cmd.Flags().GetInt("tail")
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := cmdutil.ConnectDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		store := &service.FeatureService{DB: db.DB}
		for _, symbol := range cfg.Job.Symbols {
			if err := validateSymbol(ctx, cmd.OutOrStdout(), store, cfg.Job, symbol, limit, tail); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	validateCmd.Flags().Int("limit", 120, "the number of latest bars to check")
	validateCmd.Flags().Int("tail", 5, "the number of latest rows to print")
	cmdutil.JobFlags(validateCmd.Flags())
	RootCmd.AddCommand(validateCmd)
}

func validateSymbol(ctx context.Context, w io.Writer, store *service.FeatureService, job config.Job, symbol string, limit, tail int) error {
	timeframe := job.Timeframe.String()

	instrumentID, err := store.InstrumentID(ctx, job.Exchange, symbol)
	if err != nil {
		return err
	}

	times, err := store.LastBarTimes(ctx, instrumentID, timeframe, uint64(limit))
	if err != nil {
		return err
	}

	if len(times) == 0 {
		fmt.Fprintf(w, "%s %s: no bars found\n", symbol, timeframe)
		return nil
	}

	values, err := store.QueryValues(ctx, instrumentID, timeframe, times[0], times[len(times)-1])
	if err != nil {
		return err
	}

	frame := features.Pivot(values)
	fmt.Fprintf(w, "== %s %s window %s -> %s, %d bars, %d with features\n",
		symbol, timeframe,
		times[0].UTC().Format(time.RFC3339), times[len(times)-1].UTC().Format(time.RFC3339),
		len(times), frame.Len())

	if frame.Len() == 0 {
		fmt.Fprintln(w, "no feature values found, run the features command first")
		return nil
	}

	fmt.Fprintf(w, "feature columns: %s\n", strings.Join(frame.Names, ", "))
	renderFrameTable(w, frame.Tail(tail))
	renderSummaryTable(w, frame, features.Names(features.DefaultDefinitions))

	if err := features.CheckRanges(frame); err != nil {
		for _, e := range multierr.Errors(err) {
			log.WithField("symbol", symbol).Warn(e.Error())
			warnColor.Fprintf(w, "WARN: %s\n", e.Error())
		}
	}

	return nil
}

// renderSummaryTable describes every column of frame listed in names.
func renderSummaryTable(w io.Writer, frame *features.Frame, names []string) {
	t := style.NewTable(w, table.Row{"feature", "count", "mean", "std", "min", "25%", "50%", "75%", "max", "na_count"})
	for _, name := range names {
		col, ok := frame.Column(name)
		if !ok {
			continue
		}

		s := features.Describe(col)
		t.AppendRow(table.Row{
			name, s.Count,
			style.FormatFloat(s.Mean, 6), style.FormatFloat(s.Std, 6),
			style.FormatFloat(s.Min, 6), style.FormatFloat(s.Q25, 6),
			style.FormatFloat(s.Median, 6), style.FormatFloat(s.Q75, 6),
			style.FormatFloat(s.Max, 6), s.NaN,
		})
	}
	t.Render()
}
