package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/solomio312/ManuX/internal/config"
	"github.com/solomio312/ManuX/internal/domain"
	"github.com/solomio312/ManuX/internal/output"
)

func loadPlan(path string) (*config.PlanDocument, *domain.PlanParameters, error) {
	parser := config.NewInputParser()
	doc, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	params, err := doc.PlanParameters()
	if err != nil {
		return nil, nil, err
	}
	return doc, params, nil
}

func simulateCmd() *cobra.Command {
	var format, currency, saveAs string
	cmd := &cobra.Command{
		Use:   "simulate [plan-file]",
		Short: "Run the deterministic compound-growth projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			_, params, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			res, err := a.engine.Accumulator.Simulate(params)
			if err != nil {
				return err
			}

			if saveAs != "" {
				if err := a.store.SaveScenario(saveAs, params, res); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "saved scenario %q\n", saveAs)
			}

			switch format {
			case "csv":
				data, err := output.CSVSeries{}.Format(res)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			default:
				fmt.Fprint(os.Stdout, a.console(currency).FormatSimulation(res))
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "console", "output format: console or csv")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	cmd.Flags().StringVar(&saveAs, "save", "", "save the run as a named scenario")
	return cmd
}

func monteCarloCmd() *cobra.Command {
	var currency string
	cmd := &cobra.Command{
		Use:   "montecarlo [plan-file]",
		Short: "Project the plan under random volatility and report P10/P50/P90",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			doc, params, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			a.engine.MonteCarlo.Seed = doc.MonteCarlo.Seed
			res, err := a.engine.MonteCarlo.Run(params, doc.MonteCarlo.AnnualVolatilityPercent, doc.MonteCarlo.Simulations)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, a.console(currency).FormatMonteCarlo(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}

func taxCmd() *cobra.Command {
	var currency string
	cmd := &cobra.Command{
		Use:   "tax [plan-file]",
		Short: "Show the projection net of taxes on the accumulated interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			doc, params, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			mode, err := doc.TaxMode()
			if err != nil {
				return err
			}
			res, err := a.engine.Accumulator.Simulate(params)
			if err != nil {
				return err
			}
			impact, err := a.engine.TaxCalc.Apply(res, doc.Tax.RatePercent, mode)
			if err != nil {
				return err
			}
			console := a.console(currency)
			fmt.Fprint(os.Stdout, console.FormatSimulation(res))
			fmt.Fprintln(os.Stdout)
			fmt.Fprint(os.Stdout, console.FormatTax(impact))
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}

// drawdownCmd answers "how long does a pot last": a withdrawal-only plan
// run through the same simulator.
func drawdownCmd() *cobra.Command {
	var (
		capital, monthly, ratePct, inflationPct string
		years                                   int
		currency                                string
	)
	cmd := &cobra.Command{
		Use:   "drawdown",
		Short: "Check how long a capital pot sustains a monthly withdrawal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			params := &domain.PlanParameters{
				Compounding:      domain.CompoundMonthly,
				HorizonYears:     years,
				WithdrawalWindow: domain.YearWindow{StartYear: 1, EndYear: years},
				StartMonth:       time.Now().Month(),
				StartYear:        time.Now().Year(),
			}
			if params.InitialCapital, err = decimal.NewFromString(capital); err != nil {
				return fmt.Errorf("bad --capital: %w", err)
			}
			if params.MonthlyWithdrawal, err = decimal.NewFromString(monthly); err != nil {
				return fmt.Errorf("bad --monthly: %w", err)
			}
			if params.AnnualRatePercent, err = decimal.NewFromString(ratePct); err != nil {
				return fmt.Errorf("bad --rate: %w", err)
			}
			if params.InflationPercent, err = decimal.NewFromString(inflationPct); err != nil {
				return fmt.Errorf("bad --inflation: %w", err)
			}

			res, err := a.engine.Accumulator.Simulate(params)
			if err != nil {
				return err
			}

			money := a.moneyFormatter(currency)
			for _, rec := range res.History {
				if rec.Balance.IsZero() {
					fmt.Fprintf(os.Stdout, "pot is exhausted in %s (month %d)\n", rec.Label, rec.Index)
					return nil
				}
			}
			fmt.Fprintf(os.Stdout, "pot lasts the full %d years; %s remains\n", years, money.Format(res.FinalBalance))
			return nil
		},
	}
	cmd.Flags().StringVar(&capital, "capital", "0", "starting capital")
	cmd.Flags().StringVar(&monthly, "monthly", "0", "monthly withdrawal")
	cmd.Flags().StringVar(&ratePct, "rate", "0", "annual growth rate percent while drawing down")
	cmd.Flags().StringVar(&inflationPct, "inflation", "0", "annual inflation percent")
	cmd.Flags().IntVar(&years, "years", 30, "horizon to check")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")
	return cmd
}

func scenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "List and manage saved scenarios",
	}

	var currency string
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			snapshots, err := a.store.LoadScenarios()
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Fprintln(os.Stdout, "no saved scenarios")
				return nil
			}
			money := a.moneyFormatter(currency)
			for i, snap := range snapshots {
				fmt.Fprintf(os.Stdout, "%2d  %-24s %s  saved %s\n",
					i, snap.Name, money.Format(snap.FinalBalance), snap.SavedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
	list.Flags().StringVar(&currency, "currency", "", "display currency (default: base currency)")

	del := &cobra.Command{
		Use:   "delete [index]",
		Short: "Delete a saved scenario by its list index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			var index int
			if _, err := fmt.Sscanf(args[0], "%d", &index); err != nil {
				return fmt.Errorf("bad index %q", args[0])
			}
			return a.store.DeleteScenario(index)
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}
