package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solomio312/ManuX/internal/calculation"
	"github.com/solomio312/ManuX/internal/domain"
	"github.com/solomio312/ManuX/internal/portfolio"
	"github.com/solomio312/ManuX/internal/rates"
)

type stubQuotes map[string]domain.Quote

func (s stubQuotes) Fetch(_ context.Context, ticker string) (domain.Quote, error) {
	q, ok := s[ticker]
	if !ok {
		return domain.Quote{}, assert.AnError
	}
	return q, nil
}

type memStore struct {
	positions []domain.HeldPosition
}

func (m *memStore) LoadPositions() ([]domain.HeldPosition, error) { return m.positions, nil }
func (m *memStore) SavePositions(p []domain.HeldPosition) error   { m.positions = p; return nil }

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := quietLog()

	store := &memStore{positions: []domain.HeldPosition{
		{Ticker: "VWCE.DE", Shares: decimal.NewFromInt(30), AvgCost: decimal.NewFromInt(90)},
	}}
	book, err := portfolio.OpenBook(store)
	require.NoError(t, err)

	valuator := portfolio.NewValuator(stubQuotes{
		"VWCE.DE": {Price: decimal.NewFromInt(100), RawDividendYield: decimal.NewFromFloat(0.02)},
	}, log)

	rateSvc := rates.NewService("http://unused.invalid", "EUR", rates.FormatJSON, log)

	srv := NewServer(calculation.NewEngine(), rateSvc, valuator, book, log)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

const flatPlan = `{
	"initialCapital": "1000",
	"annualRatePercent": "0",
	"compounding": 12,
	"horizonYears": 1,
	"startMonth": 1,
	"startYear": 2026
}`

func TestSimulateEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/simulate", flatPlan)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1000", body["finalBalance"])
	assert.Len(t, body["history"], 12)
}

func TestSimulateEndpoint_InvalidPlanIs400(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/simulate", `{"horizonYears": 0}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "horizon")
}

func TestSimulateEndpoint_MalformedBodyIs400(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/simulate", `{not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "malformed")
}

func TestMonteCarloEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/montecarlo", `{
		"plan": `+flatPlan+`,
		"annualVolatilityPercent": "0",
		"simulations": 50
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 50, body["numSimulations"])
	assert.Equal(t, body["p10"], body["p90"])
}

func TestTaxEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/tax", `{
		"plan": `+flatPlan+`,
		"ratePercent": "25",
		"mode": "disposal"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	impact, ok := body["impact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0", impact["tax"])
	assert.Equal(t, "1000", impact["net"])
	require.NotNil(t, body["simulation"])
}

func TestTaxEndpoint_UnknownMode(t *testing.T) {
	ts := testServer(t)

	resp, _ := postJSON(t, ts.URL+"/api/v1/tax", `{"plan": `+flatPlan+`, "mode": "confiscatory"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRealEstateEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/realestate", `{
		"price": "100000",
		"downPaymentPercent": "100",
		"annualRatePercent": "0",
		"amortizationYears": 30,
		"grossMonthlyRent": "600"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "100000", body["downPayment"])
	assert.Equal(t, "0", body["loanAmount"])
}

func TestRebalanceEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/rebalance", `{
		"assets": [
			{"name": "stocks", "currentValue": "6000", "targetPercent": "50"},
			{"name": "bonds", "currentValue": "4000", "targetPercent": "50"}
		],
		"newCash": "0"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	actions, ok := body["actions"].([]any)
	require.True(t, ok)
	require.Len(t, actions, 2)
	first := actions[0].(map[string]any)
	assert.Equal(t, "stocks", first["name"])
	assert.Equal(t, "-1000", first["amount"])
}

func TestRatesEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := postGet(t, ts.URL+"/api/v1/rates")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", body["EUR"])
}

func TestPortfolioEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := postGet(t, ts.URL+"/api/v1/portfolio")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3000", body["totalValue"])
	positions, ok := body["positions"].([]any)
	require.True(t, ok)
	require.Len(t, positions, 1)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/simulate")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func postGet(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}
