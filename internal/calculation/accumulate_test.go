package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solomio312/ManuX/internal/domain"
)

func basePlan() *domain.PlanParameters {
	return &domain.PlanParameters{
		InitialCapital:    decimal.NewFromInt(10000),
		AnnualRatePercent: decimal.NewFromInt(7),
		Compounding:       domain.CompoundMonthly,
		InflationPercent:  decimal.NewFromFloat(2.5),
		MonthlyDeposit:    decimal.NewFromInt(500),
		DepositWindow:     domain.YearWindow{StartYear: 1, EndYear: 20},
		WithdrawalWindow:  domain.YearWindow{StartYear: 1, EndYear: 0},
		HorizonYears:      20,
		StartMonth:        time.November,
		StartYear:         2025,
	}
}

func toFloat(t *testing.T, d decimal.Decimal) float64 {
	t.Helper()
	f, _ := d.Float64()
	return f
}

func TestSimulate_GoldenScenario(t *testing.T) {
	sim := NewAccumulationSimulator()

	res, err := sim.Simulate(basePlan())
	require.NoError(t, err)

	// 10k initial, 500/mo for 20 years at 7% compounded monthly with
	// 2.5% inflation. Reference values pinned from the exact recurrence.
	assert.InEpsilon(t, 302370.087827, toFloat(t, res.FinalBalance), 1e-6)
	assert.InEpsilon(t, 184527.678591, toFloat(t, res.FinalRealBalance), 1e-6)
	assert.True(t, res.TotalInvested.Equal(decimal.NewFromInt(130000)),
		"invested should be exactly 10000 + 240*500, got %s", res.TotalInvested)
	assert.InEpsilon(t, 172370.087827, toFloat(t, res.TotalInterest), 1e-6)
	assert.InEpsilon(t, 63.861644, toFloat(t, res.TotalInflationPercent), 1e-6)
	assert.Len(t, res.History, 240)
}

func TestSimulate_ZeroRateZeroFlows(t *testing.T) {
	sim := NewAccumulationSimulator()
	p := basePlan()
	p.AnnualRatePercent = decimal.Zero
	p.InflationPercent = decimal.Zero
	p.MonthlyDeposit = decimal.Zero

	res, err := sim.Simulate(p)
	require.NoError(t, err)

	assert.True(t, res.FinalBalance.Equal(p.InitialCapital), "no growth, no flow: balance stays put")
	assert.True(t, res.FinalRealBalance.Equal(p.InitialCapital))
	assert.True(t, res.TotalInterest.IsZero())
	assert.True(t, res.DoublingTimeYears.IsZero(), "doubling time is undefined at zero rate")
}

func TestSimulate_PrincipalIndependentOfRates(t *testing.T) {
	sim := NewAccumulationSimulator()
	p := basePlan()
	p.InitialCapital = decimal.NewFromInt(2000)
	p.MonthlyDeposit = decimal.NewFromInt(100)
	p.DepositGrowthPercent = decimal.NewFromInt(10)
	p.DepositWindow = domain.YearWindow{StartYear: 2, EndYear: 3}
	p.HorizonYears = 5

	// Year 2 deposits 110/mo, year 3 deposits 121/mo; nothing else.
	want := decimal.NewFromInt(2000).
		Add(decimal.NewFromInt(12).Mul(decimal.NewFromInt(110))).
		Add(decimal.NewFromInt(12).Mul(decimal.NewFromInt(121)))

	for _, rate := range []float64{0, 4, 12} {
		p.AnnualRatePercent = decimal.NewFromFloat(rate)
		res, err := sim.Simulate(p)
		require.NoError(t, err)
		assert.True(t, res.TotalInvested.Equal(want),
			"rate %v: invested %s, want %s", rate, res.TotalInvested, want)
	}
}

func TestSimulate_QuarterlyCompounding(t *testing.T) {
	sim := NewAccumulationSimulator()
	p := basePlan()
	p.AnnualRatePercent = decimal.NewFromInt(6)
	p.Compounding = domain.CompoundQuarterly
	p.InflationPercent = decimal.Zero
	p.MonthlyDeposit = decimal.Zero
	p.HorizonYears = 5

	res, err := sim.Simulate(p)
	require.NoError(t, err)

	// 10000 * (1.015)^20 stepped at month granularity.
	assert.InEpsilon(t, 13468.550066, toFloat(t, res.FinalBalance), 1e-6)
}

func TestSimulate_RuleOf72(t *testing.T) {
	sim := NewAccumulationSimulator()
	p := basePlan()
	p.AnnualRatePercent = decimal.NewFromFloat(7.2)
	p.InflationPercent = decimal.Zero
	p.MonthlyDeposit = decimal.Zero
	p.HorizonYears = 10

	res, err := sim.Simulate(p)
	require.NoError(t, err)

	assert.True(t, res.DoublingTimeYears.Equal(decimal.NewFromInt(10)),
		"72/7.2 should be exactly 10 years, got %s", res.DoublingTimeYears)
	// Running for the doubling time should roughly double the capital;
	// the Rule of 72 is an approximation, so the tolerance is loose.
	assert.InEpsilon(t, 20000, toFloat(t, res.FinalBalance), 0.03)
}

func TestSimulate_WithdrawalClampsToZero(t *testing.T) {
	sim := NewAccumulationSimulator()
	p := basePlan()
	p.InitialCapital = decimal.NewFromInt(1000)
	p.AnnualRatePercent = decimal.NewFromInt(5)
	p.InflationPercent = decimal.Zero
	p.MonthlyDeposit = decimal.Zero
	p.MonthlyWithdrawal = decimal.NewFromInt(2000)
	p.WithdrawalWindow = domain.YearWindow{StartYear: 1, EndYear: 5}
	p.HorizonYears = 5

	res, err := sim.Simulate(p)
	require.NoError(t, err)

	// The first withdrawal wipes the account; with no further deposits
	// every subsequent month must stay at exactly zero, never negative.
	for _, rec := range res.History {
		assert.True(t, rec.Balance.Equal(decimal.Zero),
			"month %d: balance %s, want exactly 0", rec.Index, rec.Balance)
	}
	assert.True(t, res.FinalBalance.Equal(decimal.Zero))
}

func TestSimulate_WindowsOutsideHorizon(t *testing.T) {
	sim := NewAccumulationSimulator()
	p := basePlan()
	p.InflationPercent = decimal.Zero
	p.AnnualRatePercent = decimal.Zero
	p.DepositWindow = domain.YearWindow{StartYear: 25, EndYear: 30}
	p.HorizonYears = 5

	res, err := sim.Simulate(p)
	require.NoError(t, err)

	// Deposit window entirely after the horizon: the flow never fires.
	assert.True(t, res.FinalBalance.Equal(p.InitialCapital))
	assert.True(t, res.TotalInvested.Equal(p.InitialCapital))
}

func TestSimulate_MonthLabels(t *testing.T) {
	sim := NewAccumulationSimulator()
	p := basePlan()
	p.HorizonYears = 1

	res, err := sim.Simulate(p)
	require.NoError(t, err)
	require.Len(t, res.History, 12)

	assert.Equal(t, "Nov 2025", res.History[0].Label)
	assert.Equal(t, "Dec 2025", res.History[1].Label)
	assert.Equal(t, "Jan 2026", res.History[2].Label, "labels should carry the year over")
	assert.Equal(t, "Oct 2026", res.History[11].Label)
}

func TestSimulate_InvalidPlans(t *testing.T) {
	sim := NewAccumulationSimulator()

	cases := map[string]func(*domain.PlanParameters){
		"zero horizon":       func(p *domain.PlanParameters) { p.HorizonYears = 0 },
		"negative capital":   func(p *domain.PlanParameters) { p.InitialCapital = decimal.NewFromInt(-1) },
		"bad compounding":    func(p *domain.PlanParameters) { p.Compounding = 6 },
		"negative deposit":   func(p *domain.PlanParameters) { p.MonthlyDeposit = decimal.NewFromInt(-5) },
		"negative withdraw":  func(p *domain.PlanParameters) { p.MonthlyWithdrawal = decimal.NewFromInt(-5) },
		"month out of range": func(p *domain.PlanParameters) { p.StartMonth = 13 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := basePlan()
			mutate(p)
			res, err := sim.Simulate(p)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrInvalidPlan)
		})
	}
}
