package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/solomio312/ManuX/internal/domain"
)

// Default jsonpath expressions for a chart-style history payload: parallel
// arrays of epoch-second timestamps and closes.
const (
	DefaultHistoryTimePath  = "$.chart.result[0].timestamp"
	DefaultHistoryClosePath = "$.chart.result[0].indicators.quote[0].close"
)

// historyTimeout allows for the larger payload of a multi-year series.
const historyTimeout = 15 * time.Second

// HistoryClient fetches a ticker's close series over HTTP. Like Client, the
// payload shape is located by jsonpath expressions, not hardcoded.
type HistoryClient struct {
	urlTemplate string
	timePath    string
	closePath   string
	http        *http.Client
	log         *logrus.Logger
}

// NewHistoryClient builds a history client. Empty paths fall back to the
// defaults; a zero timeout falls back to historyTimeout.
func NewHistoryClient(urlTemplate, timePath, closePath string, timeout time.Duration, log *logrus.Logger) *HistoryClient {
	if timePath == "" {
		timePath = DefaultHistoryTimePath
	}
	if closePath == "" {
		closePath = DefaultHistoryClosePath
	}
	if timeout <= 0 {
		timeout = historyTimeout
	}
	if log == nil {
		log = logrus.New()
	}
	return &HistoryClient{
		urlTemplate: urlTemplate,
		timePath:    timePath,
		closePath:   closePath,
		http:        &http.Client{Timeout: timeout},
		log:         log,
	}
}

// Fetch retrieves the close series for one ticker in chronological order.
// Entries whose close is null or unparsable are dropped as data gaps.
func (c *HistoryClient) Fetch(ctx context.Context, ticker string) ([]domain.PricePoint, error) {
	addr := strings.ReplaceAll(c.urlTemplate, "{ticker}", url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build history request for %s: %w", ticker, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request for %s failed: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s history", resp.StatusCode, ticker)
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode history payload for %s: %w", ticker, err)
	}

	timesRaw, err := jsonpath.Get(c.timePath, doc)
	if err != nil {
		return nil, fmt.Errorf("no timestamps at %s for %s: %w", c.timePath, ticker, err)
	}
	closesRaw, err := jsonpath.Get(c.closePath, doc)
	if err != nil {
		return nil, fmt.Errorf("no closes at %s for %s: %w", c.closePath, ticker, err)
	}
	times, ok := timesRaw.([]any)
	if !ok {
		return nil, fmt.Errorf("timestamps at %s for %s are not an array", c.timePath, ticker)
	}
	closes, ok := closesRaw.([]any)
	if !ok {
		return nil, fmt.Errorf("closes at %s for %s are not an array", c.closePath, ticker)
	}

	n := len(times)
	if len(closes) < n {
		n = len(closes)
	}
	points := make([]domain.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		epoch, ok := asFloat(times[i])
		if !ok {
			continue
		}
		close, ok := asFloat(closes[i])
		if !ok {
			c.log.WithField("ticker", ticker).Debugf("dropping gap at index %d", i)
			continue
		}
		points = append(points, domain.PricePoint{
			Date:  time.Unix(int64(epoch), 0).UTC(),
			Close: decimal.NewFromFloat(close),
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("empty price history for %s", ticker)
	}
	return points, nil
}

// asFloat coerces a decoded JSON scalar. Null and anything non-numeric
// report false.
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	default:
		return 0, false
	}
}
