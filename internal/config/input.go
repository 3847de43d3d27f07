// Package config parses plan documents from YAML and validates them before
// they reach a simulator.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/solomio312/ManuX/internal/domain"
)

// PlanDocument is the on-disk shape of a plan file. Compounding and the
// start month are written as words, everything numeric as decimals.
type PlanDocument struct {
	Plan struct {
		InitialCapital       decimal.Decimal   `yaml:"initial_capital"`
		AnnualRatePercent    decimal.Decimal   `yaml:"annual_rate_percent"`
		Compounding          string            `yaml:"compounding"`
		InflationPercent     decimal.Decimal   `yaml:"inflation_percent"`
		MonthlyDeposit       decimal.Decimal   `yaml:"monthly_deposit"`
		DepositGrowthPercent decimal.Decimal   `yaml:"deposit_growth_percent"`
		DepositWindow        domain.YearWindow `yaml:"deposit_window"`
		MonthlyWithdrawal    decimal.Decimal   `yaml:"monthly_withdrawal"`
		WithdrawalWindow     domain.YearWindow `yaml:"withdrawal_window"`
		HorizonYears         int               `yaml:"horizon_years"`
		StartMonth           string            `yaml:"start_month"`
		StartYear            int               `yaml:"start_year"`
	} `yaml:"plan"`

	MonteCarlo struct {
		AnnualVolatilityPercent decimal.Decimal `yaml:"annual_volatility_percent"`
		Simulations             int             `yaml:"simulations"`
		Seed                    int64           `yaml:"seed"`
	} `yaml:"monte_carlo"`

	Tax struct {
		RatePercent decimal.Decimal `yaml:"rate_percent"`
		Mode        string          `yaml:"mode"`
	} `yaml:"tax"`
}

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan document from a YAML file and validates the
// plan section.
func (ip *InputParser) LoadFromFile(filename string) (*PlanDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a plan document.
func (ip *InputParser) Parse(data []byte) (*PlanDocument, error) {
	var doc PlanDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if _, err := doc.PlanParameters(); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &doc, nil
}

// PlanParameters converts the plan section into validated simulator input.
// Omitted compounding defaults to monthly; an omitted calendar start
// defaults to the current month.
func (d *PlanDocument) PlanParameters() (*domain.PlanParameters, error) {
	freq, err := ParseCompounding(d.Plan.Compounding)
	if err != nil {
		return nil, err
	}

	startMonth := time.Now().Month()
	if d.Plan.StartMonth != "" {
		startMonth, err = ParseMonth(d.Plan.StartMonth)
		if err != nil {
			return nil, err
		}
	}
	startYear := d.Plan.StartYear
	if startYear == 0 {
		startYear = time.Now().Year()
	}

	params := &domain.PlanParameters{
		InitialCapital:       d.Plan.InitialCapital,
		AnnualRatePercent:    d.Plan.AnnualRatePercent,
		Compounding:          freq,
		InflationPercent:     d.Plan.InflationPercent,
		MonthlyDeposit:       d.Plan.MonthlyDeposit,
		DepositGrowthPercent: d.Plan.DepositGrowthPercent,
		DepositWindow:        d.Plan.DepositWindow,
		MonthlyWithdrawal:    d.Plan.MonthlyWithdrawal,
		WithdrawalWindow:     d.Plan.WithdrawalWindow,
		HorizonYears:         d.Plan.HorizonYears,
		StartMonth:           startMonth,
		StartYear:            startYear,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// TaxMode returns the parsed tax mode, defaulting to taxation at disposal.
func (d *PlanDocument) TaxMode() (domain.TaxMode, error) {
	if d.Tax.Mode == "" {
		return domain.TaxAtDisposal, nil
	}
	return domain.ParseTaxMode(d.Tax.Mode)
}

// ParseCompounding maps a compounding word onto a frequency. The empty
// string means monthly.
func ParseCompounding(s string) (domain.CompoundingFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly":
		return domain.CompoundMonthly, nil
	case "quarterly":
		return domain.CompoundQuarterly, nil
	case "annual", "annually", "yearly":
		return domain.CompoundAnnual, nil
	}
	return 0, fmt.Errorf("%w: unknown compounding %q", domain.ErrInvalidPlan, s)
}

// ParseMonth accepts a full month name or its three-letter abbreviation,
// case-insensitively.
func ParseMonth(s string) (time.Month, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown month %q", domain.ErrInvalidPlan, s)
}
