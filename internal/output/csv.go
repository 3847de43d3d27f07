package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/solomio312/ManuX/internal/domain"
)

// CSVSeries writes the month series, one row per simulated month.
type CSVSeries struct{}

func (CSVSeries) Name() string { return "csv" }

// Format renders the full history with a header row. Amounts are written
// with two decimals in the base currency; no display conversion applies.
func (CSVSeries) Format(res *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "Label", "Balance", "RealBalance", "Invested", "Deposit", "Withdrawal", "Interest"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, rec := range res.History {
		row := []string{
			strconv.Itoa(rec.Index),
			rec.Label,
			rec.Balance.StringFixed(2),
			rec.RealBalance.StringFixed(2),
			rec.Invested.StringFixed(2),
			rec.Deposit.StringFixed(2),
			rec.Withdrawal.StringFixed(2),
			rec.Interest.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
