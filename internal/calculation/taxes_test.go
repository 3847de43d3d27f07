package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solomio312/ManuX/internal/domain"
)

func taxedResult() *domain.SimulationResult {
	return &domain.SimulationResult{
		FinalBalance:          decimal.NewFromInt(300000),
		TotalInterest:         decimal.NewFromInt(170000),
		TotalInflationPercent: decimal.NewFromInt(25),
	}
}

func TestTaxImpact_AtDisposal(t *testing.T) {
	tc := NewTaxImpactCalculator()

	impact, err := tc.Apply(taxedResult(), decimal.NewFromInt(10), domain.TaxAtDisposal)
	require.NoError(t, err)

	assert.True(t, impact.Gross.Equal(decimal.NewFromInt(300000)))
	assert.True(t, impact.Tax.Equal(decimal.NewFromInt(17000)), "10%% of the interest only, got %s", impact.Tax)
	assert.True(t, impact.Net.Equal(decimal.NewFromInt(283000)))
	assert.True(t, impact.NetReal.Equal(decimal.NewFromInt(226400)), "283000 / 1.25, got %s", impact.NetReal)
}

func TestTaxImpact_AnnualDrag(t *testing.T) {
	tc := NewTaxImpactCalculator()

	impact, err := tc.Apply(taxedResult(), decimal.NewFromInt(10), domain.TaxAnnualDrag)
	require.NoError(t, err)

	// Same base as disposal, times the literal 1.15 drag multiplier.
	assert.True(t, impact.Tax.Equal(decimal.NewFromFloat(19550)), "17000 * 1.15, got %s", impact.Tax)
	assert.True(t, impact.Net.Equal(decimal.NewFromFloat(280450)))
}

func TestTaxImpact_ZeroRate(t *testing.T) {
	tc := NewTaxImpactCalculator()

	impact, err := tc.Apply(taxedResult(), decimal.Zero, domain.TaxAtDisposal)
	require.NoError(t, err)

	assert.True(t, impact.Tax.IsZero())
	assert.True(t, impact.Net.Equal(impact.Gross))
}

func TestTaxImpact_Invalid(t *testing.T) {
	tc := NewTaxImpactCalculator()

	_, err := tc.Apply(nil, decimal.NewFromInt(10), domain.TaxAtDisposal)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)

	_, err = tc.Apply(taxedResult(), decimal.NewFromInt(-1), domain.TaxAtDisposal)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)

	_, err = tc.Apply(taxedResult(), decimal.NewFromInt(10), domain.TaxMode(9))
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestParseTaxMode(t *testing.T) {
	m, err := domain.ParseTaxMode("disposal")
	require.NoError(t, err)
	assert.Equal(t, domain.TaxAtDisposal, m)

	m, err = domain.ParseTaxMode("annual_drag")
	require.NoError(t, err)
	assert.Equal(t, domain.TaxAnnualDrag, m)

	_, err = domain.ParseTaxMode("weekly")
	assert.Error(t, err)
}
