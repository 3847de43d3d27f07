package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/domain"
)

// RebalanceCalculator computes the buy/sell deltas that bring each asset to
// its target weight after new cash is added. Target percentages are not
// checked against 100 and never renormalized; flagging a mismatched set is
// a display concern.
type RebalanceCalculator struct{}

// NewRebalanceCalculator creates a rebalance calculator.
func NewRebalanceCalculator() *RebalanceCalculator {
	return &RebalanceCalculator{}
}

// Rebalance returns one signed action per asset: positive amounts are buys,
// negative amounts are sells.
func (rc *RebalanceCalculator) Rebalance(assets []domain.RebalanceTarget, newCash decimal.Decimal) []domain.RebalanceAction {
	total := newCash
	for _, a := range assets {
		total = total.Add(a.CurrentValue)
	}

	actions := make([]domain.RebalanceAction, 0, len(assets))
	for _, a := range assets {
		target := total.Mul(a.TargetPercent).Div(oneHundred)
		actions = append(actions, domain.RebalanceAction{
			Name:   a.Name,
			Amount: target.Sub(a.CurrentValue),
		})
	}
	return actions
}
