// Package portfolio values a user-held position list against live quotes
// and maintains the ordered position book.
package portfolio

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/solomio312/ManuX/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// QuoteProvider is the external collaborator supplying live quotes. A fetch
// may fail per ticker; the valuator treats that as data for that position,
// never as a reason to abort the batch.
type QuoteProvider interface {
	Fetch(ctx context.Context, ticker string) (domain.Quote, error)
}

// Valuator reconciles held positions against live quotes.
type Valuator struct {
	quotes QuoteProvider
	log    *logrus.Logger
}

// NewValuator creates a valuator over the given quote source.
func NewValuator(quotes QuoteProvider, log *logrus.Logger) *Valuator {
	if log == nil {
		log = logrus.New()
	}
	return &Valuator{quotes: quotes, log: log}
}

// NormalizeYieldPercent reconciles the inconsistent dividend-yield
// conventions of external sources: values above 1 are taken as already
// being percents, values at or below 1 as fractions and scaled by 100.
//
// The threshold of exactly 1 is a heuristic with known false positives (a
// genuine >100% yield, or a sub-1% value already expressed as a percent,
// is misclassified). It mirrors the upstream data inconsistency and is
// kept as-is on purpose.
func NormalizeYieldPercent(raw decimal.Decimal) decimal.Decimal {
	if raw.GreaterThan(decimal.NewFromInt(1)) {
		return raw
	}
	return raw.Mul(oneHundred)
}

// Revalue fetches a quote per position and computes per-position profit,
// dividend income and portfolio allocation. Positions whose quote fetch
// failed are emitted with zeroed derived fields and a failure reason.
func (v *Valuator) Revalue(ctx context.Context, positions []domain.HeldPosition) *domain.PortfolioValuation {
	valued := make([]domain.ValuedPosition, 0, len(positions))
	totalValue := decimal.Zero
	totalDividend := decimal.Zero

	for _, pos := range positions {
		quote, err := v.quotes.Fetch(ctx, pos.Ticker)
		if err != nil {
			v.log.WithField("ticker", pos.Ticker).WithError(err).Warn("quote fetch failed, zeroing position")
			valued = append(valued, domain.ValuedPosition{
				HeldPosition:  pos,
				FailureReason: err.Error(),
			})
			continue
		}

		value := quote.Price.Mul(pos.Shares)
		yieldPct := NormalizeYieldPercent(quote.RawDividendYield)
		dividend := value.Mul(yieldPct).Div(oneHundred)

		valued = append(valued, domain.ValuedPosition{
			HeldPosition:         pos,
			Price:                quote.Price,
			MarketValue:          value,
			UnrealizedProfit:     value.Sub(pos.Shares.Mul(pos.AvgCost)),
			DividendYieldPercent: yieldPct,
			AnnualDividend:       dividend,
		})
		totalValue = totalValue.Add(value)
		totalDividend = totalDividend.Add(dividend)
	}

	// Allocation needs the grand total, so it is a second pass.
	if totalValue.IsPositive() {
		for i := range valued {
			valued[i].AllocationPercent = valued[i].MarketValue.Div(totalValue).Mul(oneHundred)
		}
	}

	return &domain.PortfolioValuation{
		Positions:           valued,
		TotalValue:          totalValue,
		TotalAnnualDividend: totalDividend,
	}
}
