package calculation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/domain"
)

// RealEstateUnderwriter computes mortgage, cash-flow and yield ratios for a
// rental deal. Pure function over its inputs, no history, no dependency on
// the simulators.
type RealEstateUnderwriter struct{}

// NewRealEstateUnderwriter creates an underwriter.
func NewRealEstateUnderwriter() *RealEstateUnderwriter {
	return &RealEstateUnderwriter{}
}

// Underwrite computes the underwriting outputs for one deal.
func (u *RealEstateUnderwriter) Underwrite(in *domain.RealEstateInputs) (*domain.RealEstateOutputs, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	downPayment := in.Price.Mul(in.DownPaymentPercent).Div(oneHundred)
	loan := in.Price.Sub(downPayment)

	n := in.AmortizationYears * 12
	rate, _ := in.AnnualRatePercent.Float64()
	r := rate / 100 / 12

	var payment decimal.Decimal
	if r > 0 {
		// Standard amortizing-loan annuity: P*r*(1+r)^n / ((1+r)^n - 1).
		pn := math.Pow(1+r, float64(n))
		payment = loan.Mul(decimal.NewFromFloat(r * pn / (pn - 1)))
	} else {
		// Zero rate degenerates to straight-line repayment.
		payment = loan.Div(decimal.NewFromInt(int64(n)))
	}

	expensePct := in.VacancyPercent.Add(in.MaintenancePercent).Add(in.ManagementPercent)
	noi := in.GrossMonthlyRent.Sub(in.GrossMonthlyRent.Mul(expensePct).Div(oneHundred))
	cashFlow := noi.Sub(payment)

	twelve := decimal.NewFromInt(12)
	cashInvested := downPayment.Add(in.ClosingCosts)
	cashOnCash := decimal.Zero
	if cashInvested.IsPositive() {
		cashOnCash = cashFlow.Mul(twelve).Div(cashInvested).Mul(oneHundred)
	}
	capRate := decimal.Zero
	if in.Price.IsPositive() {
		capRate = noi.Mul(twelve).Div(in.Price).Mul(oneHundred)
	}

	return &domain.RealEstateOutputs{
		DownPayment:       downPayment,
		LoanAmount:        loan,
		MonthlyPayment:    payment,
		MonthlyNOI:        noi,
		MonthlyCashFlow:   cashFlow,
		CashOnCashPercent: cashOnCash,
		CapRatePercent:    capRate,
	}, nil
}
