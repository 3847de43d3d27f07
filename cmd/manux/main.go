package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solomio312/ManuX/internal/calculation"
	"github.com/solomio312/ManuX/internal/market"
	"github.com/solomio312/ManuX/internal/output"
	"github.com/solomio312/ManuX/internal/rates"
	"github.com/solomio312/ManuX/internal/storage"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logrusEngineLogger adapts logrus to the engine's logging surface.
type logrusEngineLogger struct{ log *logrus.Logger }

func (l logrusEngineLogger) Debugf(format string, args ...any) { l.log.Debugf(format, args...) }
func (l logrusEngineLogger) Infof(format string, args ...any)  { l.log.Infof(format, args...) }
func (l logrusEngineLogger) Warnf(format string, args ...any)  { l.log.Warnf(format, args...) }
func (l logrusEngineLogger) Errorf(format string, args ...any) { l.log.Errorf(format, args...) }

// appEnv is the process configuration, read from the environment with a
// .env file as optional seed. Plan inputs never come from here.
type appEnv struct {
	DataDir        string
	BaseCurrency   string
	RatesURL       string
	RatesFormat    rates.SourceFormat
	QuoteURL       string
	QuotePricePath string
	QuoteYieldPath string

	HistoryURL       string
	HistoryTimePath  string
	HistoryClosePath string

	ListenAddr string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadEnv() appEnv {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	format := rates.FormatJSON
	if envOr("MANUX_RATES_FORMAT", "json") == string(rates.FormatECBXML) {
		format = rates.FormatECBXML
	}
	return appEnv{
		DataDir:        envOr("MANUX_DATA_DIR", filepath.Join(home, ".manux")),
		BaseCurrency:   envOr("MANUX_BASE_CURRENCY", "EUR"),
		RatesURL:       envOr("MANUX_RATES_URL", "https://api.frankfurter.app/latest?from=EUR"),
		RatesFormat:    format,
		QuoteURL:       envOr("MANUX_QUOTE_URL", ""),
		QuotePricePath: envOr("MANUX_QUOTE_PRICE_PATH", market.DefaultPricePath),
		QuoteYieldPath: envOr("MANUX_QUOTE_YIELD_PATH", market.DefaultYieldPath),

		HistoryURL:       envOr("MANUX_HISTORY_URL", ""),
		HistoryTimePath:  envOr("MANUX_HISTORY_TIME_PATH", market.DefaultHistoryTimePath),
		HistoryClosePath: envOr("MANUX_HISTORY_CLOSE_PATH", market.DefaultHistoryClosePath),

		ListenAddr: envOr("MANUX_LISTEN_ADDR", ":8080"),
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.WarnLevel
	}
	log.SetLevel(level)
	return log
}

// app bundles everything the commands share.
type app struct {
	env    appEnv
	log    *logrus.Logger
	engine *calculation.Engine
	store  *storage.Store
	rates  *rates.Service
}

func newApp() (*app, error) {
	env := loadEnv()
	log := newLogger()

	store, err := storage.NewStore(env.DataDir, log)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewEngine()
	engine.SetLogger(logrusEngineLogger{log: log})

	return &app{
		env:    env,
		log:    log,
		engine: engine,
		store:  store,
		rates:  rates.NewService(env.RatesURL, env.BaseCurrency, env.RatesFormat, log),
	}, nil
}

func (a *app) quoteClient() *market.Client {
	return market.NewClient(a.env.QuoteURL, a.env.QuotePricePath, a.env.QuoteYieldPath, 0, a.log)
}

func (a *app) historyClient() (*market.HistoryClient, error) {
	if a.env.HistoryURL == "" {
		return nil, fmt.Errorf("MANUX_HISTORY_URL is not set; no price-history source configured")
	}
	return market.NewHistoryClient(a.env.HistoryURL, a.env.HistoryTimePath, a.env.HistoryClosePath, 0, a.log), nil
}

// moneyFormatter builds the display formatter, refreshing rates first when
// the display currency differs from the base. A failed refresh degrades to
// identity conversion.
func (a *app) moneyFormatter(display string) *output.MoneyFormatter {
	if display == "" {
		display = a.env.BaseCurrency
	}
	if display != a.env.BaseCurrency {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.rates.Refresh(ctx); err != nil {
			a.log.WithError(err).Warn("rate refresh failed, amounts shown unconverted")
		}
	}
	return output.NewMoneyFormatter(a.env.BaseCurrency, display, a.rates.Table())
}

func (a *app) console(display string) *output.ConsoleFormatter {
	return output.NewConsoleFormatter(a.moneyFormatter(display))
}

var rootCmd = &cobra.Command{
	Use:   "manux",
	Short: "Personal finance projection toolkit",
	Long:  "Compound-growth projections, Monte Carlo bands, tax impact, rental underwriting, and portfolio tracking.",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "manux %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func main() {
	rootCmd.AddCommand(
		simulateCmd(),
		monteCarloCmd(),
		taxCmd(),
		drawdownCmd(),
		realEstateCmd(),
		rebalanceCmd(),
		backtestCmd(),
		marketCmd(),
		scenarioCmd(),
		portfolioCmd(),
		ratesCmd(),
		serveCmd(),
		versionCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
