package calculation

// Logger is the minimal logging surface the calculation engines use. The
// caller adapts its real logger (logrus in the CLI) to this interface; a
// nil logger is replaced by NopLogger so engines never nil-check.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Engine bundles the pure calculators behind one explicitly constructed
// handle. Every calculator is stateless and side-effect free, so a single
// Engine is safe to share across goroutines without synchronization.
type Engine struct {
	Accumulator *AccumulationSimulator
	MonteCarlo  *MonteCarloProjector
	TaxCalc     *TaxImpactCalculator
	RealEstate  *RealEstateUnderwriter
	Rebalancer  *RebalanceCalculator
	Backtester  *Backtester
	Logger      Logger
}

// NewEngine creates an engine with default calculators and a no-op logger.
func NewEngine() *Engine {
	e := &Engine{
		Accumulator: NewAccumulationSimulator(),
		MonteCarlo:  NewMonteCarloProjector(),
		TaxCalc:     NewTaxImpactCalculator(),
		RealEstate:  NewRealEstateUnderwriter(),
		Rebalancer:  NewRebalanceCalculator(),
		Backtester:  NewBacktester(),
	}
	e.SetLogger(nil)
	return e
}

// SetLogger installs a logger on the engine and its calculators. Passing nil
// restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Accumulator.log = l
	e.MonteCarlo.log = l
}
