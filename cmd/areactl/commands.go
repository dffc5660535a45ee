package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"square-area-client/internal/calculator"

	"github.com/spf13/cobra"
)

func newCalcCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <side>",
		Short: "Calculate the area of a square and show the refreshed history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			_, err := c.CalculateArea(cmd.Context(), args[0])
			if renderErr := calculator.RenderText(cmd.OutOrStdout(), c.Snapshot()); renderErr != nil {
				return renderErr
			}
			return err
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the most recent calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if err := c.LoadHistory(cmd.Context()); err != nil {
				return err
			}
			return calculator.RenderText(cmd.OutOrStdout(), c.Snapshot())
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the total number of calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if err := c.LoadStats(cmd.Context()); err != nil {
				return err
			}
			return calculator.RenderText(cmd.OutOrStdout(), c.Snapshot())
		},
	}
}

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print stats and history, then reprint the history every interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := opts.client()
			out := cmd.OutOrStdout()

			// Load failures are logged; watch keeps going like the page does.
			_ = c.Refresh(ctx)
			if err := calculator.RenderText(out, c.Snapshot()); err != nil {
				return err
			}

			ticker := time.NewTicker(c.RefreshInterval())
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					_ = c.LoadHistory(ctx)
					fmt.Fprintln(out, "---")
					if err := calculator.RenderText(out, c.Snapshot()); err != nil {
						return err
					}
				}
			}
		},
	}
}
