// Package rates holds the currency conversion table and its refresh logic.
// The table maps currency codes to multipliers relative to a base currency;
// the base is always present at 1.0. Refreshes replace the table wholesale,
// so readers either see the old table or the new one, never a mix.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// connectTimeout is the short fixed timeout on the refresh call; a rate
// refresh is a background nicety and must not hang the caller's UI thread.
const connectTimeout = 3 * time.Second

// SourceFormat selects how the refresh payload is decoded.
type SourceFormat string

const (
	// FormatJSON expects a frankfurter-style body:
	// {"rates": {"USD": 1.08, ...}}.
	FormatJSON SourceFormat = "json"
	// FormatECBXML expects the ECB daily reference-rate XML feed.
	FormatECBXML SourceFormat = "ecb-xml"
)

// Table maps currency code to its value relative to the base currency.
type Table map[string]decimal.Decimal

// Convert translates a value between two currencies. Unknown codes fall back
// to multiplier 1, so a missing rate degrades to a no-op rather than an
// error mid-display.
func (t Table) Convert(v decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return v
	}
	fromRate, ok := t[from]
	if !ok || fromRate.IsZero() {
		fromRate = decimal.NewFromInt(1)
	}
	toRate, ok := t[to]
	if !ok {
		toRate = decimal.NewFromInt(1)
	}
	return v.Div(fromRate).Mul(toRate)
}

// Service fetches and owns the current rate table. The zero value is not
// usable; construct with NewService.
type Service struct {
	url    string
	base   string
	format SourceFormat
	client *http.Client
	log    *logrus.Logger

	mu    sync.RWMutex
	table Table
}

// NewService creates a rate service seeded with a one-entry table holding
// the base currency, so conversion works (as identity) before any refresh.
func NewService(url, base string, format SourceFormat, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		url:    url,
		base:   base,
		format: format,
		client: &http.Client{Timeout: connectTimeout},
		log:    log,
		table:  Table{base: decimal.NewFromInt(1)},
	}
}

// Table returns the current table. The map is replaced wholesale on refresh
// and never mutated in place, so the returned reference stays consistent.
func (s *Service) Table() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Convert translates a value using the current table.
func (s *Service) Convert(v decimal.Decimal, from, to string) decimal.Decimal {
	return s.Table().Convert(v, from, to)
}

// Refresh fetches a fresh table and swaps it in. On any failure the prior
// table is left untouched.
func (s *Service) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code from rate source: %d", resp.StatusCode)
	}

	var table Table
	switch s.format {
	case FormatECBXML:
		table, err = parseECBRates(resp.Body, s.base)
	default:
		table, err = parseJSONRates(resp.Body)
	}
	if err != nil {
		return err
	}
	table[s.base] = decimal.NewFromInt(1)

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	s.log.WithField("currencies", len(table)).Debug("rate table refreshed")
	return nil
}

// RefreshAsync runs Refresh off the caller's thread and reports through the
// callback. Failures never escape past the callback boundary.
func (s *Service) RefreshAsync(ctx context.Context, cb func(ok bool)) {
	go func() {
		err := s.Refresh(ctx)
		if err != nil {
			s.log.WithError(err).Warn("rate refresh failed, keeping previous table")
		}
		if cb != nil {
			cb(err == nil)
		}
	}()
}

type jsonRatesPayload struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func parseJSONRates(r io.Reader) (Table, error) {
	var payload jsonRatesPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rate JSON: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rate payload contains no rates")
	}
	table := make(Table, len(payload.Rates)+1)
	for code, mult := range payload.Rates {
		table[code] = mult
	}
	return table, nil
}
