package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/solomio312/ManuX/internal/domain"
)

func realEstateCmd() *cobra.Command {
	var (
		price, down, rate, rent          string
		vacancy, maintenance, management string
		closing, currency                string
		years                            int
	)
	cmd := &cobra.Command{
		Use:   "realestate",
		Short: "Underwrite a rental deal: payment, NOI, cash flow, returns",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			in := &domain.RealEstateInputs{AmortizationYears: years}
			fields := []struct {
				dst  *decimal.Decimal
				raw  string
				flag string
			}{
				{&in.Price, price, "price"},
				{&in.DownPaymentPercent, down, "down"},
				{&in.AnnualRatePercent, rate, "rate"},
				{&in.GrossMonthlyRent, rent, "rent"},
				{&in.VacancyPercent, vacancy, "vacancy"},
				{&in.MaintenancePercent, maintenance, "maintenance"},
				{&in.ManagementPercent, management, "management"},
				{&in.ClosingCosts, closing, "closing"},
			}
			for _, f := range fields {
				if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
					return fmt.Errorf("bad --%s: %w", f.flag, err)
				}
			}

			out, err := a.engine.RealEstate.Underwrite(in)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, a.console(currency).FormatRealEstate(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&price, "price", "0", "purchase price")
	cmd.Flags().StringVar(&down, "down", "20", "down payment percent")
	cmd.Flags().StringVar(&rate, "rate", "0", "annual mortgage rate percent")
	cmd.Flags().IntVar(&years, "years", 30, "amortization years")
	cmd.Flags().StringVar(&rent, "rent", "0", "gross monthly rent")
	cmd.Flags().StringVar(&vacancy, "vacancy", "0", "vacancy percent of rent")
	cmd.Flags().StringVar(&maintenance, "maintenance", "0", "maintenance percent of rent")
	cmd.Flags().StringVar(&management, "management", "0", "management percent of rent")
	cmd.Flags().StringVar(&closing, "closing", "0", "closing costs")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}

// parseRebalanceArg splits "name:current:target" into a target entry.
func parseRebalanceArg(arg string) (domain.RebalanceTarget, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return domain.RebalanceTarget{}, fmt.Errorf("expected name:current:target, got %q", arg)
	}
	current, err := decimal.NewFromString(parts[1])
	if err != nil {
		return domain.RebalanceTarget{}, fmt.Errorf("bad current value in %q: %w", arg, err)
	}
	target, err := decimal.NewFromString(parts[2])
	if err != nil {
		return domain.RebalanceTarget{}, fmt.Errorf("bad target percent in %q: %w", arg, err)
	}
	return domain.RebalanceTarget{Name: parts[0], CurrentValue: current, TargetPercent: target}, nil
}

func rebalanceCmd() *cobra.Command {
	var cash, currency string
	cmd := &cobra.Command{
		Use:   "rebalance [name:current:target]...",
		Short: "Compute buy/sell amounts to reach target weights",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			assets := make([]domain.RebalanceTarget, 0, len(args))
			for _, arg := range args {
				target, err := parseRebalanceArg(arg)
				if err != nil {
					return err
				}
				assets = append(assets, target)
			}
			newCash, err := decimal.NewFromString(cash)
			if err != nil {
				return fmt.Errorf("bad --cash: %w", err)
			}
			actions := a.engine.Rebalancer.Rebalance(assets, newCash)
			fmt.Fprint(os.Stdout, a.console(currency).FormatRebalance(actions))
			return nil
		},
	}
	cmd.Flags().StringVar(&cash, "cash", "0", "new cash to distribute")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}
