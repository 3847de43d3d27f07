package domain

import "github.com/shopspring/decimal"

// RebalanceTarget is one asset with its current value and desired weight.
// Target percentages are taken as given: the calculator never checks that
// they sum to 100 and never renormalizes, so a mismatched set simply yields
// deltas that do not fully allocate the portfolio.
type RebalanceTarget struct {
	Name          string          `json:"name" yaml:"name"`
	CurrentValue  decimal.Decimal `json:"currentValue" yaml:"current_value"`
	TargetPercent decimal.Decimal `json:"targetPercent" yaml:"target_percent"`
}

// RebalanceAction is the signed trade needed to bring one asset to target
// after new cash is added. Positive means buy, negative means sell.
type RebalanceAction struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
