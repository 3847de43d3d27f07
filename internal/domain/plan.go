package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPlan marks plan validation failures so callers can tell bad
// input apart from internal errors and leave prior state untouched.
var ErrInvalidPlan = errors.New("invalid plan")

// CompoundingFrequency is the number of compounding periods per year.
type CompoundingFrequency int

const (
	CompoundAnnual    CompoundingFrequency = 1
	CompoundQuarterly CompoundingFrequency = 4
	CompoundMonthly   CompoundingFrequency = 12
)

// Valid reports whether the frequency is one of the supported bases.
func (f CompoundingFrequency) Valid() bool {
	return f == CompoundAnnual || f == CompoundQuarterly || f == CompoundMonthly
}

func (f CompoundingFrequency) String() string {
	switch f {
	case CompoundAnnual:
		return "annual"
	case CompoundQuarterly:
		return "quarterly"
	case CompoundMonthly:
		return "monthly"
	}
	return fmt.Sprintf("CompoundingFrequency(%d)", int(f))
}

// YearWindow is an inclusive range of investment years (1-indexed) during
// which a recurring flow is active. The range may lie partially or fully
// outside the simulation horizon; out-of-range months simply carry no flow.
type YearWindow struct {
	StartYear int `json:"startYear" yaml:"start_year"`
	EndYear   int `json:"endYear" yaml:"end_year"`
}

// Contains reports whether the given investment year falls inside the window.
func (w YearWindow) Contains(year int) bool {
	return w.StartYear <= year && year <= w.EndYear
}

// PlanParameters is the full input bundle for the accumulation simulator and
// the Monte Carlo projector. All percentages are expressed as percents
// (7 means 7%), matching how the values are entered.
type PlanParameters struct {
	InitialCapital       decimal.Decimal      `json:"initialCapital" yaml:"initial_capital"`
	AnnualRatePercent    decimal.Decimal      `json:"annualRatePercent" yaml:"annual_rate_percent"`
	Compounding          CompoundingFrequency `json:"compounding" yaml:"compounding"`
	InflationPercent     decimal.Decimal      `json:"inflationPercent" yaml:"inflation_percent"`
	MonthlyDeposit       decimal.Decimal      `json:"monthlyDeposit" yaml:"monthly_deposit"`
	DepositGrowthPercent decimal.Decimal      `json:"depositGrowthPercent" yaml:"deposit_growth_percent"`
	DepositWindow        YearWindow           `json:"depositWindow" yaml:"deposit_window"`
	MonthlyWithdrawal    decimal.Decimal      `json:"monthlyWithdrawal" yaml:"monthly_withdrawal"`
	WithdrawalWindow     YearWindow           `json:"withdrawalWindow" yaml:"withdrawal_window"`
	HorizonYears         int                  `json:"horizonYears" yaml:"horizon_years"`

	// Calendar start is used only for labelling the month series.
	StartMonth time.Month `json:"startMonth" yaml:"start_month"`
	StartYear  int        `json:"startYear" yaml:"start_year"`
}

// Validate checks the plan invariants before it enters a simulator.
func (p *PlanParameters) Validate() error {
	if p.HorizonYears < 1 {
		return fmt.Errorf("%w: horizon must be at least 1 year, got %d", ErrInvalidPlan, p.HorizonYears)
	}
	if p.InitialCapital.IsNegative() {
		return fmt.Errorf("%w: initial capital must not be negative, got %s", ErrInvalidPlan, p.InitialCapital)
	}
	if !p.Compounding.Valid() {
		return fmt.Errorf("%w: compounding frequency must be 1, 4 or 12 periods/year, got %d", ErrInvalidPlan, int(p.Compounding))
	}
	if p.MonthlyDeposit.IsNegative() {
		return fmt.Errorf("%w: monthly deposit must not be negative, got %s", ErrInvalidPlan, p.MonthlyDeposit)
	}
	if p.MonthlyWithdrawal.IsNegative() {
		return fmt.Errorf("%w: monthly withdrawal must not be negative, got %s", ErrInvalidPlan, p.MonthlyWithdrawal)
	}
	if p.StartMonth < time.January || p.StartMonth > time.December {
		return fmt.Errorf("%w: start month must be 1-12, got %d", ErrInvalidPlan, int(p.StartMonth))
	}
	if p.StartYear < 1 {
		return fmt.Errorf("%w: start year must be positive, got %d", ErrInvalidPlan, p.StartYear)
	}
	return nil
}

// Months returns the simulation length in months.
func (p *PlanParameters) Months() int {
	return p.HorizonYears * 12
}

// MonthRecord is one row of the simulated month series. Records are emitted
// in strict chronological order; the balance can be forced to exactly zero
// by withdrawals but is never negative.
type MonthRecord struct {
	Index       int             `json:"index"`
	Label       string          `json:"label"`
	Balance     decimal.Decimal `json:"balance"`
	RealBalance decimal.Decimal `json:"realBalance"`
	Invested    decimal.Decimal `json:"invested"`
	Deposit     decimal.Decimal `json:"deposit"`
	Withdrawal  decimal.Decimal `json:"withdrawal"`
	Interest    decimal.Decimal `json:"interest"`
}

// SimulationResult is the complete output of a deterministic simulation run.
type SimulationResult struct {
	FinalBalance     decimal.Decimal `json:"finalBalance"`
	FinalRealBalance decimal.Decimal `json:"finalRealBalance"`
	TotalInvested    decimal.Decimal `json:"totalInvested"`
	TotalInterest    decimal.Decimal `json:"totalInterest"`
	History          []MonthRecord   `json:"history"`

	// Cumulative inflation over the horizon, as a percent.
	TotalInflationPercent decimal.Decimal `json:"totalInflationPercent"`

	// Rule-of-72 doubling time in years. Zero when the annual rate is
	// zero or negative; it is undefined there, never computed.
	DoublingTimeYears decimal.Decimal `json:"doublingTimeYears"`
}

// MonteCarloResult carries the percentile band of terminal balances plus a
// capped sample of full trajectories for charting. All simulated paths
// contribute to the percentiles; only the first paths keep their history.
type MonteCarloResult struct {
	NumSimulations int             `json:"numSimulations"`
	P10            decimal.Decimal `json:"p10"`
	P50            decimal.Decimal `json:"p50"`
	P90            decimal.Decimal `json:"p90"`

	Trajectories [][]decimal.Decimal `json:"trajectories"`
}

// TaxMode selects how the tax rate is applied to the accumulated interest.
type TaxMode int

const (
	// TaxAtDisposal models a single exit event taxed once.
	TaxAtDisposal TaxMode = iota
	// TaxAnnualDrag models yearly taxation as a flat penalty on the same
	// base. The multiplier is a deliberate simplification carried over
	// from the source behavior, not a per-year compounding model.
	TaxAnnualDrag
)

// ParseTaxMode maps a config/API string onto a TaxMode.
func ParseTaxMode(s string) (TaxMode, error) {
	switch s {
	case "disposal", "exit", "at_disposal":
		return TaxAtDisposal, nil
	case "annual", "drag", "annual_drag":
		return TaxAnnualDrag, nil
	}
	return 0, fmt.Errorf("unknown tax mode %q", s)
}

func (m TaxMode) String() string {
	switch m {
	case TaxAtDisposal:
		return "disposal"
	case TaxAnnualDrag:
		return "annual_drag"
	}
	return fmt.Sprintf("TaxMode(%d)", int(m))
}

// TaxImpact is the net-of-tax view over a simulation result.
type TaxImpact struct {
	Gross   decimal.Decimal `json:"gross"`
	Tax     decimal.Decimal `json:"tax"`
	Net     decimal.Decimal `json:"net"`
	NetReal decimal.Decimal `json:"netReal"`
}
