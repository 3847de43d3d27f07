package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RealEstateInputs are the underwriting parameters for a single rental deal.
// Percentages are percents; price, rent and closing costs are money amounts.
type RealEstateInputs struct {
	Price              decimal.Decimal `json:"price" yaml:"price"`
	DownPaymentPercent decimal.Decimal `json:"downPaymentPercent" yaml:"down_payment_percent"`
	AnnualRatePercent  decimal.Decimal `json:"annualRatePercent" yaml:"annual_rate_percent"`
	AmortizationYears  int             `json:"amortizationYears" yaml:"amortization_years"`
	GrossMonthlyRent   decimal.Decimal `json:"grossMonthlyRent" yaml:"gross_monthly_rent"`
	VacancyPercent     decimal.Decimal `json:"vacancyPercent" yaml:"vacancy_percent"`
	MaintenancePercent decimal.Decimal `json:"maintenancePercent" yaml:"maintenance_percent"`
	ManagementPercent  decimal.Decimal `json:"managementPercent" yaml:"management_percent"`
	ClosingCosts       decimal.Decimal `json:"closingCosts" yaml:"closing_costs"`
}

// Validate checks the inputs the underwriter cannot recover from by a safe
// default. Zero price and zero cash invested are handled downstream.
func (in *RealEstateInputs) Validate() error {
	if in.AmortizationYears < 1 {
		return fmt.Errorf("%w: amortization must be at least 1 year, got %d", ErrInvalidPlan, in.AmortizationYears)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative, got %s", ErrInvalidPlan, in.Price)
	}
	return nil
}

// RealEstateOutputs are the underwriting ratios. Payment, NOI and cash flow
// are monthly figures; cash-on-cash and cap rate are annualized percents.
type RealEstateOutputs struct {
	DownPayment       decimal.Decimal `json:"downPayment"`
	LoanAmount        decimal.Decimal `json:"loanAmount"`
	MonthlyPayment    decimal.Decimal `json:"monthlyPayment"`
	MonthlyNOI        decimal.Decimal `json:"monthlyNoi"`
	MonthlyCashFlow   decimal.Decimal `json:"monthlyCashFlow"`
	CashOnCashPercent decimal.Decimal `json:"cashOnCashPercent"`
	CapRatePercent    decimal.Decimal `json:"capRatePercent"`
}
