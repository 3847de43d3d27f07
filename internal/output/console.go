package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Width(24)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	negativeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E06C75"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B"))
)

// ConsoleFormatter renders results as styled terminal text.
type ConsoleFormatter struct {
	money *MoneyFormatter
}

// NewConsoleFormatter uses the given money formatter for every amount.
func NewConsoleFormatter(money *MoneyFormatter) *ConsoleFormatter {
	return &ConsoleFormatter{money: money}
}

func (c *ConsoleFormatter) row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func pct(v decimal.Decimal) string {
	return v.StringFixed(2) + "%"
}

// FormatSimulation renders the headline figures of a deterministic run.
func (c *ConsoleFormatter) FormatSimulation(res *domain.SimulationResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Projection") + "\n")
	b.WriteString(c.row("Final balance", c.money.Format(res.FinalBalance)))
	b.WriteString(c.row("Real (today's money)", c.money.Format(res.FinalRealBalance)))
	b.WriteString(c.row("Total invested", c.money.Format(res.TotalInvested)))
	b.WriteString(c.row("Total interest", c.money.Format(res.TotalInterest)))
	b.WriteString(c.row("Cumulative inflation", pct(res.TotalInflationPercent)))
	if res.DoublingTimeYears.IsPositive() {
		b.WriteString(c.row("Doubling time", res.DoublingTimeYears.StringFixed(1)+" years"))
	}
	return b.String()
}

// FormatMonteCarlo renders the percentile band.
func (c *ConsoleFormatter) FormatMonteCarlo(res *domain.MonteCarloResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Monte Carlo (%d paths)", res.NumSimulations)) + "\n")
	b.WriteString(c.row("Pessimistic (P10)", c.money.Format(res.P10)))
	b.WriteString(c.row("Median (P50)", c.money.Format(res.P50)))
	b.WriteString(c.row("Optimistic (P90)", c.money.Format(res.P90)))
	return b.String()
}

// FormatTax renders the net-of-tax view.
func (c *ConsoleFormatter) FormatTax(imp *domain.TaxImpact) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tax impact") + "\n")
	b.WriteString(c.row("Gross", c.money.Format(imp.Gross)))
	b.WriteString(c.row("Tax", c.money.Format(imp.Tax)))
	b.WriteString(c.row("Net", c.money.Format(imp.Net)))
	b.WriteString(c.row("Net real", c.money.Format(imp.NetReal)))
	return b.String()
}

// FormatRealEstate renders the underwriting ratios.
func (c *ConsoleFormatter) FormatRealEstate(out *domain.RealEstateOutputs) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rental underwriting") + "\n")
	b.WriteString(c.row("Down payment", c.money.Format(out.DownPayment)))
	b.WriteString(c.row("Loan amount", c.money.Format(out.LoanAmount)))
	b.WriteString(c.row("Monthly payment", c.money.Format(out.MonthlyPayment)))
	b.WriteString(c.row("Monthly NOI", c.money.Format(out.MonthlyNOI)))
	cashFlow := c.money.Format(out.MonthlyCashFlow)
	if out.MonthlyCashFlow.IsNegative() {
		b.WriteString(labelStyle.Render("Monthly cash flow") + negativeStyle.Render(cashFlow) + "\n")
	} else {
		b.WriteString(c.row("Monthly cash flow", cashFlow))
	}
	b.WriteString(c.row("Cash-on-cash", pct(out.CashOnCashPercent)))
	b.WriteString(c.row("Cap rate", pct(out.CapRatePercent)))
	return b.String()
}

// FormatValuation renders the position table and portfolio totals. Failed
// tickers are shown with their reason instead of numbers.
func (c *ConsoleFormatter) FormatValuation(val *domain.PortfolioValuation) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Portfolio") + "\n")
	for _, p := range val.Positions {
		if p.FailureReason != "" {
			b.WriteString(fmt.Sprintf("%-10s %s\n", p.Ticker, warnStyle.Render("unavailable: "+p.FailureReason)))
			continue
		}
		b.WriteString(fmt.Sprintf("%-10s %14s  %6s  yield %6s  div %s\n",
			p.Ticker,
			c.money.Format(p.MarketValue),
			pct(p.AllocationPercent),
			pct(p.DividendYieldPercent),
			c.money.Format(p.AnnualDividend),
		))
	}
	b.WriteString("\n")
	b.WriteString(c.row("Total value", c.money.Format(val.TotalValue)))
	b.WriteString(c.row("Annual dividends", c.money.Format(val.TotalAnnualDividend)))
	return b.String()
}

// FormatBacktest renders the summary of a historical DCA replay.
func (c *ConsoleFormatter) FormatBacktest(res *domain.BacktestResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Backtest (%d months)", len(res.History))) + "\n")
	b.WriteString(c.row("Final value", c.money.Format(res.FinalValue)))
	b.WriteString(c.row("Total invested", c.money.Format(res.TotalInvested)))
	ret := pct(res.TotalReturnPercent)
	if res.TotalReturnPercent.IsNegative() {
		b.WriteString(labelStyle.Render("Total return") + negativeStyle.Render(ret) + "\n")
	} else {
		b.WriteString(c.row("Total return", ret))
	}
	b.WriteString(c.row("Max drawdown", pct(res.MaxDrawdownPercent)))
	return b.String()
}

// FormatMarketStats renders the long-run figures of a close series.
func (c *ConsoleFormatter) FormatMarketStats(ticker string, stats *domain.MarketStats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ticker) + "\n")
	b.WriteString(c.row("Last close", c.money.Format(stats.EndClose)))
	b.WriteString(c.row("History", stats.Years.StringFixed(1)+" years"))
	b.WriteString(c.row("CAGR", pct(stats.CAGRPercent)))
	b.WriteString(c.row("Volatility (ann.)", pct(stats.VolatilityPercent)))
	return b.String()
}

// FormatRebalance renders the signed trade list.
func (c *ConsoleFormatter) FormatRebalance(actions []domain.RebalanceAction) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rebalance") + "\n")
	for _, a := range actions {
		verb := "buy "
		style := valueStyle
		if a.Amount.IsNegative() {
			verb = "sell"
			style = negativeStyle
		}
		b.WriteString(fmt.Sprintf("%-16s %s %s\n", a.Name, verb, style.Render(c.money.Format(a.Amount.Abs()))))
	}
	return b.String()
}
