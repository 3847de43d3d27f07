package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/domain"
)

// annualDragFactor is the flat penalty applied on top of the disposal tax
// base under the annual-drag mode. The value is carried over literally from
// the source behavior; it is a simplification, not a compounding-per-year
// model, and has no stated derivation.
var annualDragFactor = decimal.NewFromFloat(1.15)

// TaxImpactCalculator turns a simulation result into gross/tax/net figures
// under one of two regimes. Pure and stateless.
type TaxImpactCalculator struct{}

// NewTaxImpactCalculator creates a tax impact calculator.
func NewTaxImpactCalculator() *TaxImpactCalculator {
	return &TaxImpactCalculator{}
}

// Apply computes the net-of-tax view of a finished simulation. Only the
// accumulated interest is taxed, never the principal.
func (tc *TaxImpactCalculator) Apply(res *domain.SimulationResult, ratePct decimal.Decimal, mode domain.TaxMode) (*domain.TaxImpact, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: no simulation result to tax", domain.ErrInvalidPlan)
	}
	if ratePct.IsNegative() {
		return nil, fmt.Errorf("%w: tax rate must not be negative, got %s", domain.ErrInvalidPlan, ratePct)
	}

	tax := res.TotalInterest.Mul(ratePct).Div(oneHundred)
	switch mode {
	case domain.TaxAtDisposal:
		// Single exit event, taxed once.
	case domain.TaxAnnualDrag:
		tax = tax.Mul(annualDragFactor)
	default:
		return nil, fmt.Errorf("%w: unknown tax mode %d", domain.ErrInvalidPlan, int(mode))
	}

	net := res.FinalBalance.Sub(tax)
	inflationFactor := decimal.NewFromInt(1).Add(res.TotalInflationPercent.Div(oneHundred))

	return &domain.TaxImpact{
		Gross:   res.FinalBalance,
		Tax:     tax,
		Net:     net,
		NetReal: net.Div(inflationFactor),
	}, nil
}
