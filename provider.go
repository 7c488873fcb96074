package lynch

import (
	"context"
	"errors"

	"github.com/etnz/lynch/date"
)

// Provider is a fundamental data source. Fetch returns one raw record per
// reported quarter of symbol, in any order.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol string) ([]RawRecord, error)
}

// ErrRateLimited is returned by providers when the API quota is exhausted.
// The data may be available later; the symbol should be retried.
var ErrRateLimited = errors.New("provider rate limit reached")

// ErrNotFound is returned by providers that know nothing about a symbol.
var ErrNotFound = errors.New("symbol not found")

// GroupByPeriod indexes raw records by quarter. Records without a period are dropped.
func GroupByPeriod(raws []RawRecord) map[date.Quarter][]RawRecord {
	out := make(map[date.Quarter][]RawRecord)
	for _, r := range raws {
		if r.Period.IsZero() {
			continue
		}
		out[r.Period] = append(out[r.Period], r)
	}
	return out
}
