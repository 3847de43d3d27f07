package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/solomio312/ManuX/internal/api"
	"github.com/solomio312/ManuX/internal/portfolio"
)

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Fetch and print the current currency rate table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.rates.Refresh(ctx); err != nil {
				return err
			}
			table := a.rates.Table()
			codes := make([]string, 0, len(table))
			for code := range table {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Fprintf(os.Stdout, "%s  %s\n", code, table[code].String())
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators and portfolio over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.env.ListenAddr
			}

			book, err := portfolio.OpenBook(a.store)
			if err != nil {
				return err
			}
			var valuator *portfolio.Valuator
			if a.env.QuoteURL != "" {
				valuator = portfolio.NewValuator(a.quoteClient(), a.log)
			}

			// Warm the rate table once, then keep it fresh hourly. A failed
			// refresh keeps serving the previous table.
			a.rates.RefreshAsync(context.Background(), nil)
			scheduler := cron.New()
			if _, err := scheduler.AddFunc("@hourly", func() {
				a.rates.RefreshAsync(context.Background(), nil)
			}); err != nil {
				return err
			}
			scheduler.Start()
			defer scheduler.Stop()

			srv := &http.Server{
				Addr:         addr,
				Handler:      api.NewServer(a.engine, a.rates, valuator, book, a.log).Router(),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			}
			a.log.Infof("listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: MANUX_LISTEN_ADDR or :8080)")
	return cmd
}
