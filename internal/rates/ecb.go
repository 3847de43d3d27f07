package rates

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// parseECBRates decodes the ECB daily reference-rate feed
// (eurofxref-daily.xml). The feed quotes every currency against EUR, which
// must therefore be the configured base when this format is used.
func parseECBRates(r io.Reader, base string) (Table, error) {
	if base != "EUR" {
		return nil, fmt.Errorf("ECB feed quotes against EUR, base %q is not supported", base)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse ECB XML: %w", err)
	}

	cubes := doc.FindElements("//Cube/Cube/Cube")
	if len(cubes) == 0 {
		return nil, fmt.Errorf("no rate entries found in ECB XML")
	}

	table := make(Table, len(cubes)+1)
	for _, cube := range cubes {
		code := cube.SelectAttrValue("currency", "")
		raw := cube.SelectAttrValue("rate", "")
		if code == "" || raw == "" {
			continue
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("bad rate %q for currency %s: %w", raw, code, err)
		}
		table[code] = rate
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no usable rate entries found in ECB XML")
	}
	return table, nil
}
