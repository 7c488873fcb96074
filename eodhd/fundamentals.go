package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/date"
)

// sections are the nested parts of the fundamentals payload describing the
// company now. They are kept nested on the most recent quarter, where the
// JSONPath aliases ($.Highlights.PERatio...) find them.
var sections = []string{"General", "Highlights", "Valuation", "Technicals", "SharesStats", "SplitsDividends"}

// statements are the Financials parts holding quarterly reports keyed by date.
var statements = []string{"Income_Statement", "Balance_Sheet", "Cash_Flow"}

// Fetch implements lynch.Provider. It needs a single call per symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) ([]lynch.RawRecord, error) {
	var payload map[string]any
	path := "/fundamentals/" + url.PathEscape(c.ticker(symbol))
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	raws := Records(symbol, payload)
	if len(raws) == 0 {
		return nil, fmt.Errorf("fundamentals of %s: %w", symbol, lynch.ErrNotFound)
	}
	return raws, nil
}

// Records splits a fundamentals payload into one raw record per quarter, most
// recent first.
func Records(symbol string, payload map[string]any) []lynch.RawRecord {
	quarters := make(map[date.Quarter]map[string]any)
	add := func(key string, report any) {
		m, ok := report.(map[string]any)
		if !ok {
			return
		}
		d, _ := m["date"].(string)
		if d == "" {
			d = key
		}
		q, err := date.QuarterOf(d)
		if err != nil {
			return
		}
		dst := quarters[q]
		if dst == nil {
			dst = make(map[string]any)
			quarters[q] = dst
		}
		for k, v := range m {
			if _, exists := dst[k]; !exists {
				dst[k] = v
			}
		}
	}

	financials, _ := payload["Financials"].(map[string]any)
	for _, s := range statements {
		statement, _ := financials[s].(map[string]any)
		quarterly, _ := statement["quarterly"].(map[string]any)
		for key, report := range quarterly {
			add(key, report)
		}
	}
	earnings, _ := payload["Earnings"].(map[string]any)
	history, _ := earnings["History"].(map[string]any)
	for key, report := range history {
		add(key, report)
	}

	periods := make([]date.Quarter, 0, len(quarters))
	for q := range quarters {
		periods = append(periods, q)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].After(periods[j]) })

	// Earnings history announces upcoming quarters with no figures, the most
	// recent quarter with reported numbers carries the current sections.
	for len(periods) > 1 && !reported(quarters[periods[0]]) {
		delete(quarters, periods[0])
		periods = periods[1:]
	}
	if len(periods) == 0 {
		return nil
	}
	latest := quarters[periods[0]]
	for _, s := range sections {
		if v, ok := payload[s]; ok && v != nil {
			latest[s] = v
		}
	}

	raws := make([]lynch.RawRecord, 0, len(periods))
	for _, q := range periods {
		raws = append(raws, lynch.RawRecord{Provider: Name, Symbol: symbol, Period: q, Data: quarters[q]})
	}
	return raws
}

// reported tells whether a quarter has at least one non null figure besides its dates.
func reported(m map[string]any) bool {
	for k, v := range m {
		switch k {
		case "date", "reportDate", "filing_date", "currency_symbol", "beforeAfterMarket", "currency", "epsEstimate":
			continue
		}
		if v != nil {
			return true
		}
	}
	return false
}
