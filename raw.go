package lynch

import "github.com/etnz/lynch/date"

// RawRecord is what a provider adapter returns for one (symbol, period): the
// provider's own field names mapped to JSON-like values (float64, json.Number,
// string, bool, nil, nested map[string]any or []any).
//
// Nothing mutates Data once the adapter returned it.
type RawRecord struct {
	Provider string
	Symbol   string
	Period   date.Quarter
	Data     map[string]any
}
