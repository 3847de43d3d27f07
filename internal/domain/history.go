package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one close of a ticker's price history. Points with a
// non-positive close are treated as data gaps and skipped by consumers.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// BacktestPoint is one month of a dollar-cost-averaging backtest: the
// portfolio value after that month's purchase and the drawdown from the
// running peak, as a non-positive percent.
type BacktestPoint struct {
	Date            time.Time       `json:"date"`
	Value           decimal.Decimal `json:"value"`
	DrawdownPercent decimal.Decimal `json:"drawdownPercent"`
}

// BacktestResult summarizes a fixed monthly investment replayed against a
// historical close series.
type BacktestResult struct {
	FinalValue         decimal.Decimal `json:"finalValue"`
	TotalInvested      decimal.Decimal `json:"totalInvested"`
	TotalReturnPercent decimal.Decimal `json:"totalReturnPercent"`
	MaxDrawdownPercent decimal.Decimal `json:"maxDrawdownPercent"`
	History            []BacktestPoint `json:"history"`
}

// MarketStats are the long-run figures derived from a daily close series.
type MarketStats struct {
	StartClose decimal.Decimal `json:"startClose"`
	EndClose   decimal.Decimal `json:"endClose"`
	Years      decimal.Decimal `json:"years"`

	CAGRPercent decimal.Decimal `json:"cagrPercent"`
	// Annualized volatility of daily log returns, as a percent.
	VolatilityPercent decimal.Decimal `json:"volatilityPercent"`
}
