package calculation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/domain"
)

// tradingDaysPerYear annualizes daily log-return volatility.
const tradingDaysPerYear = 252

// Backtester replays a fixed monthly investment against a historical close
// series and derives long-run market statistics from daily closes. Pure and
// stateless; fetching the history is the caller's concern.
type Backtester struct{}

// NewBacktester creates a backtester.
func NewBacktester() *Backtester {
	return &Backtester{}
}

// Run buys monthlyInvestment worth of shares at every usable close and
// tracks the portfolio value and its drawdown from the running peak.
// Non-positive closes are data gaps: skipped, no purchase that month.
func (b *Backtester) Run(points []domain.PricePoint, monthlyInvestment decimal.Decimal) (*domain.BacktestResult, error) {
	if monthlyInvestment.IsNegative() {
		return nil, fmt.Errorf("%w: monthly investment must not be negative, got %s", domain.ErrInvalidPlan, monthlyInvestment)
	}

	shares := decimal.Zero
	invested := decimal.Zero
	peak := decimal.Zero
	maxDrawdown := decimal.Zero
	history := make([]domain.BacktestPoint, 0, len(points))

	for _, pt := range points {
		if !pt.Close.IsPositive() {
			continue
		}
		shares = shares.Add(monthlyInvestment.Div(pt.Close))
		invested = invested.Add(monthlyInvestment)
		value := shares.Mul(pt.Close).Round(balanceScale)

		if value.GreaterThan(peak) {
			peak = value
		}
		drawdown := decimal.Zero
		if peak.IsPositive() {
			drawdown = value.Sub(peak).Div(peak).Mul(oneHundred)
		}
		if drawdown.LessThan(maxDrawdown) {
			maxDrawdown = drawdown
		}

		history = append(history, domain.BacktestPoint{
			Date:            pt.Date,
			Value:           value,
			DrawdownPercent: drawdown,
		})
	}

	if len(history) == 0 {
		return nil, fmt.Errorf("%w: no usable closes in the price history", domain.ErrInvalidPlan)
	}

	final := history[len(history)-1].Value
	totalReturn := decimal.Zero
	if invested.IsPositive() {
		totalReturn = final.Sub(invested).Div(invested).Mul(oneHundred)
	}

	return &domain.BacktestResult{
		FinalValue:         final,
		TotalInvested:      invested,
		TotalReturnPercent: totalReturn,
		MaxDrawdownPercent: maxDrawdown,
		History:            history,
	}, nil
}

// Stats computes CAGR over the calendar span of the series and the
// annualized sample standard deviation of the daily log returns. The
// square-root-of-252 annualization assumes the input is daily closes.
func (b *Backtester) Stats(points []domain.PricePoint) (*domain.MarketStats, error) {
	usable := make([]domain.PricePoint, 0, len(points))
	for _, pt := range points {
		if pt.Close.IsPositive() {
			usable = append(usable, pt)
		}
	}
	if len(usable) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 usable closes, got %d", domain.ErrInvalidPlan, len(usable))
	}

	first := usable[0]
	last := usable[len(usable)-1]
	years := last.Date.Sub(first.Date).Hours() / 24 / 365.25
	if years <= 0 {
		return nil, fmt.Errorf("%w: price history spans no time", domain.ErrInvalidPlan)
	}

	startClose, _ := first.Close.Float64()
	endClose, _ := last.Close.Float64()
	cagr := (math.Pow(endClose/startClose, 1/years) - 1) * 100

	returns := make([]float64, 0, len(usable)-1)
	prev := startClose
	for _, pt := range usable[1:] {
		close, _ := pt.Close.Float64()
		returns = append(returns, math.Log(close/prev))
		prev = close
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	// Sample variance (n-1 denominator).
	variance /= float64(len(returns) - 1)
	vol := math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear) * 100

	return &domain.MarketStats{
		StartClose:        first.Close,
		EndClose:          last.Close,
		Years:             decimal.NewFromFloat(years),
		CAGRPercent:       decimal.NewFromFloat(cagr),
		VolatilityPercent: decimal.NewFromFloat(vol),
	}, nil
}
