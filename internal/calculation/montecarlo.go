package calculation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solomio312/ManuX/internal/domain"
)

const (
	// DefaultSimulations is used when the caller asks for zero or fewer
	// paths.
	DefaultSimulations = 500

	// trajectoryCap limits how many full per-month trajectories are kept
	// for charting. It is a visualization sampling cap; every path still
	// contributes to the percentile statistics.
	trajectoryCap = 50
)

// MonteCarloProjector runs the stochastic variant of the cash-flow schedule.
// Deposit and withdrawal scheduling follow the deterministic simulator
// exactly; the deterministic compounding step is replaced by a random
// monthly return drawn from N(rate/12, volatility/sqrt(12)).
type MonteCarloProjector struct {
	// Seed fixes the base of the per-path generators for reproducible
	// runs. Zero means seed from the clock.
	Seed int64

	log Logger
}

// NewMonteCarloProjector creates a projector with clock seeding.
func NewMonteCarloProjector() *MonteCarloProjector {
	return &MonteCarloProjector{log: NopLogger{}}
}

// Run simulates numSimulations independent paths of the plan under the given
// annual volatility (percent) and reads off the nearest-rank P10/P50/P90 of
// the terminal balances.
func (mc *MonteCarloProjector) Run(p *domain.PlanParameters, annualVolatilityPct decimal.Decimal, numSimulations int) (*domain.MonteCarloResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if annualVolatilityPct.IsNegative() {
		return nil, fmt.Errorf("%w: volatility must not be negative, got %s", domain.ErrInvalidPlan, annualVolatilityPct)
	}
	if numSimulations <= 0 {
		numSimulations = DefaultSimulations
	}

	months := p.Months()
	ar, _ := p.AnnualRatePercent.Float64()
	vol, _ := annualVolatilityPct.Float64()
	mu := ar / 100 / 12
	sigma := vol / 100 / math.Sqrt(12)

	baseSeed := mc.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	mc.log.Debugf("monte carlo: %d paths x %d months, mu=%.6f sigma=%.6f", numSimulations, months, mu, sigma)

	terminals := make([]decimal.Decimal, numSimulations)
	kept := trajectoryCap
	if numSimulations < kept {
		kept = numSimulations
	}
	trajectories := make([][]decimal.Decimal, kept)

	var wg sync.WaitGroup
	for i := 0; i < numSimulations; i++ {
		wg.Add(1)
		go func(simID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(baseSeed + int64(simID)))
			terminal, traj := mc.runPath(p, mu, sigma, months, simID < kept, rng)
			terminals[simID] = terminal
			if simID < kept {
				trajectories[simID] = traj
			}
		}(i)
	}
	wg.Wait()

	sort.Slice(terminals, func(i, j int) bool { return terminals[i].LessThan(terminals[j]) })

	return &domain.MonteCarloResult{
		NumSimulations: numSimulations,
		P10:            terminals[int(float64(numSimulations)*0.10)],
		P50:            terminals[int(float64(numSimulations)*0.50)],
		P90:            terminals[int(float64(numSimulations)*0.90)],
		Trajectories:   trajectories,
	}, nil
}

// runPath walks one simulated path. The monthly update is
// (balance + deposit) * (1 + return) - withdrawal, clamped at zero. This
// order is intentionally different from the deterministic simulator: the
// multiplicative return applies to the post-deposit balance as a whole.
func (mc *MonteCarloProjector) runPath(p *domain.PlanParameters, mu, sigma float64, months int, keepTrajectory bool, rng *rand.Rand) (decimal.Decimal, []decimal.Decimal) {
	balance := p.InitialCapital
	deposit := p.MonthlyDeposit
	depositGrowth := decimal.NewFromInt(1).Add(p.DepositGrowthPercent.Div(oneHundred))

	var traj []decimal.Decimal
	if keepTrajectory {
		traj = make([]decimal.Decimal, 0, months)
	}

	for m := 1; m <= months; m++ {
		year := (m-1)/12 + 1
		if m > 1 && (m-1)%12 == 0 {
			deposit = deposit.Mul(depositGrowth).Round(balanceScale)
		}

		inflow := decimal.Zero
		if p.DepositWindow.Contains(year) {
			inflow = deposit
		}
		outflow := decimal.Zero
		if p.WithdrawalWindow.Contains(year) {
			outflow = p.MonthlyWithdrawal
		}

		ret := decimal.NewFromFloat(rng.NormFloat64()*sigma + mu)
		balance = balance.Add(inflow).
			Mul(decimal.NewFromInt(1).Add(ret)).
			Round(balanceScale).
			Sub(outflow)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		if keepTrajectory {
			traj = append(traj, balance)
		}
	}
	return balance, traj
}
