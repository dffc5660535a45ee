package main

import (
	"fmt"
	"time"

	"square-area-client/internal/areaapi"
	"square-area-client/internal/calculator"
	"square-area-client/internal/config"
	"square-area-client/internal/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	apiURL   string
	limit    int
	timeout  time.Duration
	interval time.Duration
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "areactl",
		Short:         "Square area calculator client",
		Long:          "areactl submits square side lengths to the area API and prints the result, recent history and calculation count.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zapcore.WarnLevel
			if opts.verbose {
				level = zapcore.DebugLevel
			}

			zcfg := zap.NewDevelopmentConfig()
			zcfg.Level = zap.NewAtomicLevelAt(level)
			zcfg.OutputPaths = []string{"stderr"}
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			observability.Logger = logger

			if err := calculator.InitMetrics(); err != nil {
				return err
			}
			return areaapi.InitMetrics()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.SyncLogger()
		},
	}

	defaults, err := config.Load()
	if err != nil {
		defaults = config.Config{
			APIURL:          config.DefaultAPIURL,
			HistoryLimit:    config.DefaultHistoryLimit,
			RefreshInterval: config.DefaultRefreshInterval,
			RequestTimeout:  10 * time.Second,
		}
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", defaults.APIURL, "base URL of the area API")
	flags.IntVar(&opts.limit, "limit", defaults.HistoryLimit, "number of history entries to show")
	flags.DurationVar(&opts.timeout, "timeout", defaults.RequestTimeout, "per-request timeout")
	flags.DurationVar(&opts.interval, "interval", defaults.RefreshInterval, "history refresh interval for watch")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log API calls to stderr")

	cmd.AddCommand(
		newCalcCmd(opts),
		newHistoryCmd(opts),
		newStatsCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

func (o *options) client() *calculator.Client {
	api := areaapi.New(o.apiURL, areaapi.WithTimeout(o.timeout))
	return calculator.NewClient(api, calculator.Options{
		HistoryLimit:    o.limit,
		RefreshInterval: o.interval,
	})
}
