// Package market fetches live quotes for tickers from an HTTP JSON source.
// The payload shape is not owned here: the price and raw-yield fields are
// located by configurable jsonpath expressions, so switching or upgrading
// the upstream source is a configuration change.
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

// defaultTimeout bounds a single quote fetch so one bad ticker cannot hang
// a whole portfolio valuation batch.
const defaultTimeout = 5 * time.Second

// Default jsonpath expressions for a quote-summary style payload.
const (
	DefaultPricePath = "$.quoteResponse.result[0].regularMarketPrice"
	DefaultYieldPath = "$.quoteResponse.result[0].trailingAnnualDividendYield"
)

// Client fetches quotes over HTTP. The ticker is substituted into the URL
// template in place of the {ticker} marker.
type Client struct {
	urlTemplate string
	pricePath   string
	yieldPath   string
	http        *http.Client
	log         *logrus.Logger
}

// NewClient builds a quote client. Empty path arguments fall back to the
// defaults; a zero timeout falls back to defaultTimeout.
func NewClient(urlTemplate, pricePath, yieldPath string, timeout time.Duration, log *logrus.Logger) *Client {
	if pricePath == "" {
		pricePath = DefaultPricePath
	}
	if yieldPath == "" {
		yieldPath = DefaultYieldPath
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		urlTemplate: urlTemplate,
		pricePath:   pricePath,
		yieldPath:   yieldPath,
		http:        &http.Client{Timeout: timeout},
		log:         log,
	}
}

// Fetch retrieves the quote for one ticker.
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.Quote, error) {
	addr := strings.ReplaceAll(c.urlTemplate, "{ticker}", url.QueryEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("failed to build quote request for %s: %w", ticker, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("quote request for %s failed: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, ticker)
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return domain.Quote{}, fmt.Errorf("failed to decode quote payload for %s: %w", ticker, err)
	}

	price, err := c.number(doc, c.pricePath)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("no price for %s: %w", ticker, err)
	}

	// A missing yield is common (non-dividend tickers) and not an error.
	rawYield, err := c.number(doc, c.yieldPath)
	if err != nil {
		c.log.WithField("ticker", ticker).WithError(err).Debug("no dividend yield in quote payload")
		rawYield = decimal.Zero
	}

	return domain.Quote{Price: price, RawDividendYield: rawYield}, nil
}

// number evaluates a jsonpath expression and coerces the result to decimal.
func (c *Client) number(doc any, path string) (decimal.Decimal, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return decimal.Zero, err
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	case nil:
		return decimal.Zero, fmt.Errorf("field %s is null", path)
	}
	return decimal.Zero, fmt.Errorf("field %s has unexpected type %T", path, v)
}
