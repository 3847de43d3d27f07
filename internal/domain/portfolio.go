package domain

import "github.com/shopspring/decimal"

// HeldPosition is one user-held line of the portfolio. The slice order of
// positions is display order, chosen by the user and persisted verbatim;
// it is not a ranking.
type HeldPosition struct {
	Ticker  string          `json:"ticker"`
	Shares  decimal.Decimal `json:"shares"`
	AvgCost decimal.Decimal `json:"avgCost"`
}

// Quote is the raw answer of an external quote source for one ticker.
// RawDividendYield is passed through untouched; upstream sources disagree on
// whether it is a fraction (0.055) or already a percent (5.5), so
// normalization happens in the valuator, not here.
type Quote struct {
	Price            decimal.Decimal `json:"price"`
	RawDividendYield decimal.Decimal `json:"rawDividendYield"`
}

// ValuedPosition extends a held position with the derived figures of one
// valuation pass. When the quote fetch for the ticker failed, FailureReason
// is set and every derived field is zero; the position is still emitted so
// one bad ticker never hides the rest of the portfolio.
type ValuedPosition struct {
	HeldPosition

	Price                decimal.Decimal `json:"price"`
	MarketValue          decimal.Decimal `json:"marketValue"`
	UnrealizedProfit     decimal.Decimal `json:"unrealizedProfit"`
	DividendYieldPercent decimal.Decimal `json:"dividendYieldPercent"`
	AnnualDividend       decimal.Decimal `json:"annualDividend"`
	AllocationPercent    decimal.Decimal `json:"allocationPercent"`

	FailureReason string `json:"failureReason,omitempty"`
}

// PortfolioValuation is the result of revaluing the whole position list.
type PortfolioValuation struct {
	Positions           []ValuedPosition `json:"positions"`
	TotalValue          decimal.Decimal  `json:"totalValue"`
	TotalAnnualDividend decimal.Decimal  `json:"totalAnnualDividend"`
}
