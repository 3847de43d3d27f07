package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func backtestCmd() *cobra.Command {
	var monthly, currency string
	cmd := &cobra.Command{
		Use:   "backtest [ticker]",
		Short: "Replay a fixed monthly investment against the ticker's price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			history, err := a.historyClient()
			if err != nil {
				return err
			}
			monthlyInv, err := decimal.NewFromString(monthly)
			if err != nil {
				return fmt.Errorf("bad --monthly: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			points, err := history.Fetch(ctx, args[0])
			if err != nil {
				return err
			}

			res, err := a.engine.Backtester.Run(points, monthlyInv)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, a.console(currency).FormatBacktest(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&monthly, "monthly", "100", "amount invested at every close")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}

func marketCmd() *cobra.Command {
	var currency string
	cmd := &cobra.Command{
		Use:   "market [ticker]",
		Short: "Show CAGR and annualized volatility from the ticker's daily closes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			history, err := a.historyClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			points, err := history.Fetch(ctx, args[0])
			if err != nil {
				return err
			}

			stats, err := a.engine.Backtester.Stats(points)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, a.console(currency).FormatMarketStats(args[0], stats))
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}
