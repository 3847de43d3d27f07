package output

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solomio312/ManuX/internal/domain"
	"github.com/solomio312/ManuX/internal/rates"
)

func TestMoneyFormatter_NoConversion(t *testing.T) {
	f := NewMoneyFormatter("USD", "USD", nil)
	assert.Equal(t, "$1,234.50", f.Format(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "$0.00", f.Format(decimal.Zero))
	assert.Equal(t, "-$12.34", f.Format(decimal.NewFromFloat(-12.34)))
}

func TestMoneyFormatter_ConvertsThroughTable(t *testing.T) {
	table := rates.Table{
		"EUR": decimal.NewFromInt(1),
		"USD": decimal.NewFromFloat(1.10),
	}
	f := NewMoneyFormatter("EUR", "USD", table)
	assert.Equal(t, "$110.00", f.Format(decimal.NewFromInt(100)))
}

func TestMoneyFormatter_UnknownDisplayFallsBackToBase(t *testing.T) {
	table := rates.Table{
		"EUR": decimal.NewFromInt(1),
		"USD": decimal.NewFromFloat(2),
	}

	// A typo'd display code must not silence every amount.
	f := NewMoneyFormatter("USD", "DOLLARZ", table)
	assert.Equal(t, "$10.00", f.Format(decimal.NewFromInt(10)))

	// Unknown base too: plain euro rendering, identity conversion.
	f = NewMoneyFormatter("WTF", "DOLLARZ", table)
	assert.NotEmpty(t, f.Format(decimal.NewFromInt(10)))
	assert.Contains(t, f.Format(decimal.NewFromInt(10)), "10.00")
}

func TestMoneyFormatter_RoundsToMinorUnit(t *testing.T) {
	f := NewMoneyFormatter("USD", "USD", nil)
	assert.Equal(t, "$10.56", f.Format(decimal.NewFromFloat(10.555)))
}

func sampleSimulation() *domain.SimulationResult {
	return &domain.SimulationResult{
		FinalBalance:          decimal.NewFromFloat(302370.09),
		FinalRealBalance:      decimal.NewFromFloat(184527.68),
		TotalInvested:         decimal.NewFromInt(130000),
		TotalInterest:         decimal.NewFromFloat(172370.09),
		TotalInflationPercent: decimal.NewFromFloat(63.86),
		DoublingTimeYears:     decimal.NewFromFloat(10.29),
		History: []domain.MonthRecord{
			{Index: 1, Label: "Nov 2025", Balance: decimal.NewFromFloat(10558.58), Invested: decimal.NewFromInt(10500)},
			{Index: 2, Label: "Dec 2025", Balance: decimal.NewFromFloat(11120.27), Invested: decimal.NewFromInt(11000)},
		},
	}
}

func TestConsoleFormatter_Simulation(t *testing.T) {
	c := NewConsoleFormatter(NewMoneyFormatter("USD", "USD", nil))
	out := c.FormatSimulation(sampleSimulation())

	assert.Contains(t, out, "Final balance")
	assert.Contains(t, out, "$302,370.09")
	assert.Contains(t, out, "$130,000.00")
	assert.Contains(t, out, "63.86%")
	assert.Contains(t, out, "10.3 years")
}

func TestConsoleFormatter_SimulationOmitsDoublingWhenZero(t *testing.T) {
	c := NewConsoleFormatter(NewMoneyFormatter("USD", "USD", nil))
	res := sampleSimulation()
	res.DoublingTimeYears = decimal.Zero
	assert.NotContains(t, c.FormatSimulation(res), "Doubling time")
}

func TestConsoleFormatter_Valuation(t *testing.T) {
	c := NewConsoleFormatter(NewMoneyFormatter("USD", "USD", nil))
	val := &domain.PortfolioValuation{
		Positions: []domain.ValuedPosition{
			{
				HeldPosition:         domain.HeldPosition{Ticker: "VWCE.DE"},
				MarketValue:          decimal.NewFromInt(3000),
				AllocationPercent:    decimal.NewFromInt(75),
				DividendYieldPercent: decimal.NewFromInt(2),
				AnnualDividend:       decimal.NewFromInt(60),
			},
			{
				HeldPosition:  domain.HeldPosition{Ticker: "BAD"},
				FailureReason: "quote fetch failed",
			},
		},
		TotalValue:          decimal.NewFromInt(3000),
		TotalAnnualDividend: decimal.NewFromInt(60),
	}
	out := c.FormatValuation(val)
	assert.Contains(t, out, "VWCE.DE")
	assert.Contains(t, out, "$3,000.00")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "unavailable: quote fetch failed")
}

func TestConsoleFormatter_Rebalance(t *testing.T) {
	c := NewConsoleFormatter(NewMoneyFormatter("USD", "USD", nil))
	out := c.FormatRebalance([]domain.RebalanceAction{
		{Name: "stocks", Amount: decimal.NewFromInt(-1000)},
		{Name: "bonds", Amount: decimal.NewFromInt(1000)},
	})
	assert.Contains(t, out, "sell")
	assert.Contains(t, out, "buy")
	assert.Contains(t, out, "$1,000.00")
	assert.NotContains(t, out, "-$1,000.00")
}

func TestConsoleFormatter_Backtest(t *testing.T) {
	c := NewConsoleFormatter(NewMoneyFormatter("USD", "USD", nil))
	res := &domain.BacktestResult{
		FinalValue:         decimal.NewFromInt(250),
		TotalInvested:      decimal.NewFromInt(300),
		TotalReturnPercent: decimal.NewFromFloat(-16.67),
		MaxDrawdownPercent: decimal.NewFromFloat(-16.67),
		History:            make([]domain.BacktestPoint, 3),
	}
	out := c.FormatBacktest(res)
	assert.Contains(t, out, "Backtest (3 months)")
	assert.Contains(t, out, "$250.00")
	assert.Contains(t, out, "-16.67%")
	assert.Contains(t, out, "Max drawdown")
}

func TestConsoleFormatter_MarketStats(t *testing.T) {
	c := NewConsoleFormatter(NewMoneyFormatter("USD", "USD", nil))
	stats := &domain.MarketStats{
		EndClose:          decimal.NewFromFloat(105.5),
		Years:             decimal.NewFromFloat(10.0),
		CAGRPercent:       decimal.NewFromFloat(7.2),
		VolatilityPercent: decimal.NewFromFloat(15.3),
	}
	out := c.FormatMarketStats("VWCE.DE", stats)
	assert.Contains(t, out, "VWCE.DE")
	assert.Contains(t, out, "$105.50")
	assert.Contains(t, out, "10.0 years")
	assert.Contains(t, out, "7.20%")
	assert.Contains(t, out, "15.30%")
}

func TestCSVSeries_Format(t *testing.T) {
	data, err := CSVSeries{}.Format(sampleSimulation())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Month", "Label", "Balance", "RealBalance", "Invested", "Deposit", "Withdrawal", "Interest"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Nov 2025", rows[1][1])
	assert.Equal(t, "10558.58", rows[1][2])
	assert.Equal(t, "11000.00", rows[2][4])
}
