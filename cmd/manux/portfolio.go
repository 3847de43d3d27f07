package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/solomio312/ManuX/internal/domain"
	"github.com/solomio312/ManuX/internal/portfolio"
)

func openBook(a *app) (*portfolio.Book, error) {
	return portfolio.OpenBook(a.store)
}

func portfolioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Track and value the held positions",
	}
	cmd.AddCommand(
		portfolioListCmd(),
		portfolioValueCmd(),
		portfolioAddCmd(),
		portfolioRemoveCmd(),
		portfolioMoveCmd(),
	)
	return cmd
}

func portfolioListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List positions without fetching quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			book, err := openBook(a)
			if err != nil {
				return err
			}
			positions := book.Positions()
			if len(positions) == 0 {
				fmt.Fprintln(os.Stdout, "no positions")
				return nil
			}
			for i, p := range positions {
				fmt.Fprintf(os.Stdout, "%2d  %-10s %12s shares  avg cost %s\n",
					i, p.Ticker, p.Shares.String(), p.AvgCost.String())
			}
			return nil
		},
	}
}

func portfolioValueCmd() *cobra.Command {
	var currency string
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Fetch quotes and value the whole portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if a.env.QuoteURL == "" {
				return fmt.Errorf("MANUX_QUOTE_URL is not set; no quote source to value against")
			}
			book, err := openBook(a)
			if err != nil {
				return err
			}
			valuator := portfolio.NewValuator(a.quoteClient(), a.log)
			val := valuator.Revalue(context.Background(), book.Positions())
			fmt.Fprint(os.Stdout, a.console(currency).FormatValuation(val))
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}

func portfolioAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [ticker] [shares] [avg-cost]",
		Short: "Add a position at the end of the list",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			shares, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("bad share count %q: %w", args[1], err)
			}
			avgCost, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("bad average cost %q: %w", args[2], err)
			}
			book, err := openBook(a)
			if err != nil {
				return err
			}
			return book.Add(domain.HeldPosition{Ticker: args[0], Shares: shares, AvgCost: avgCost})
		},
	}
}

func portfolioRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [index]",
		Short: "Remove the position at the given list index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad index %q", args[0])
			}
			book, err := openBook(a)
			if err != nil {
				return err
			}
			return book.Remove(index)
		},
	}
}

func portfolioMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [from] [to]",
		Short: "Reorder the list by moving one position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad index %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("bad index %q", args[1])
			}
			book, err := openBook(a)
			if err != nil {
				return err
			}
			return book.Move(from, to)
		},
	}
}
