package calculation

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/domain"
)

// balanceScale bounds the decimal tail carried through the monthly
// recurrence. The growth factors come from float64 powers, so anything past
// ten fractional digits is noise; without rounding the exact products grow a
// few digits every month.
const balanceScale = 10

var (
	oneHundred = decimal.NewFromInt(100)
	seventyTwo = decimal.NewFromInt(72)
)

// AccumulationSimulator is the deterministic month-stepped compounding
// engine. It is pure: no I/O, no shared state, O(horizon x 12) runtime.
type AccumulationSimulator struct {
	log Logger
}

// NewAccumulationSimulator creates a simulator with a no-op logger.
func NewAccumulationSimulator() *AccumulationSimulator {
	return &AccumulationSimulator{log: NopLogger{}}
}

// monthlyGrowthRate converts an annual nominal rate in percent and a
// compounding base into the effective monthly growth rate
// (1 + ar/freq)^(freq/12) - 1, so quarterly and annual compounding are
// stepped correctly at month granularity.
func monthlyGrowthRate(annualRatePercent decimal.Decimal, freq domain.CompoundingFrequency) decimal.Decimal {
	ar, _ := annualRatePercent.Float64()
	f := float64(freq)
	return decimal.NewFromFloat(math.Pow(1+ar/100/f, f/12) - 1)
}

// monthlyInflationRate converts an annual inflation percent into the monthly
// factor (1 + infl)^(1/12) - 1.
func monthlyInflationRate(inflationPercent decimal.Decimal) decimal.Decimal {
	infl, _ := inflationPercent.Float64()
	return decimal.NewFromFloat(math.Pow(1+infl/100, 1.0/12) - 1)
}

// Simulate runs the plan over its full horizon and returns the month series
// plus summary figures.
//
// The order of operations inside a month is fixed and significant:
// deposit, then interest on the post-deposit balance, then withdrawal with
// the balance clamped at zero. Changing it changes every number after the
// first withdrawal month.
func (s *AccumulationSimulator) Simulate(p *domain.PlanParameters) (*domain.SimulationResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	months := p.Months()
	monthlyRate := monthlyGrowthRate(p.AnnualRatePercent, p.Compounding)
	monthlyInflation := monthlyInflationRate(p.InflationPercent)
	depositGrowth := decimal.NewFromInt(1).Add(p.DepositGrowthPercent.Div(oneHundred))
	inflationFactor := decimal.NewFromInt(1).Add(monthlyInflation)

	s.log.Debugf("simulate: %d months, monthly rate %s, monthly inflation %s",
		months, monthlyRate, monthlyInflation)

	balance := p.InitialCapital
	invested := p.InitialCapital
	totalInterest := decimal.Zero
	deposit := p.MonthlyDeposit
	cumInflation := decimal.NewFromInt(1)
	real := balance
	start := time.Date(p.StartYear, p.StartMonth, 1, 0, 0, 0, 0, time.UTC)

	history := make([]domain.MonthRecord, 0, months)
	for m := 1; m <= months; m++ {
		year := (m-1)/12 + 1

		// The recurring deposit grows once every 12 months, applied
		// going forward from the first month of each new investment
		// year.
		if m > 1 && (m-1)%12 == 0 {
			deposit = deposit.Mul(depositGrowth).Round(balanceScale)
		}

		depositActive := p.DepositWindow.Contains(year)
		withdrawalActive := p.WithdrawalWindow.Contains(year)

		inflow := decimal.Zero
		if depositActive {
			inflow = deposit
		}
		outflow := decimal.Zero
		if withdrawalActive {
			outflow = p.MonthlyWithdrawal
		}

		balance = balance.Add(inflow)
		if depositActive {
			invested = invested.Add(inflow)
		}

		interest := balance.Mul(monthlyRate).Round(balanceScale)
		balance = balance.Add(interest)
		totalInterest = totalInterest.Add(interest)

		balance = balance.Sub(outflow)
		if balance.IsNegative() {
			// Withdrawals beyond the available balance are capped
			// silently: no debt, no error.
			balance = decimal.Zero
		}

		cumInflation = cumInflation.Mul(inflationFactor).Round(balanceScale + 2)
		real = balance.Div(cumInflation)

		history = append(history, domain.MonthRecord{
			Index:       m,
			Label:       start.AddDate(0, m-1, 0).Format("Jan 2006"),
			Balance:     balance,
			RealBalance: real,
			Invested:    invested,
			Deposit:     inflow,
			Withdrawal:  outflow,
			Interest:    interest,
		})
	}

	doubling := decimal.Zero
	if p.AnnualRatePercent.IsPositive() {
		doubling = seventyTwo.Div(p.AnnualRatePercent)
	}

	return &domain.SimulationResult{
		FinalBalance:          balance,
		FinalRealBalance:      real,
		TotalInvested:         invested,
		TotalInterest:         totalInterest,
		History:               history,
		TotalInflationPercent: cumInflation.Sub(decimal.NewFromInt(1)).Mul(oneHundred),
		DoublingTimeYears:     doubling,
	}, nil
}
