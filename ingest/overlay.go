package ingest

import (
	"sort"

	"github.com/etnz/lynch"
)

// overlay is the series of the store plus the records not written yet.
type overlay struct {
	base    lynch.SeriesSource
	records []lynch.Record
}

func newOverlay(base lynch.SeriesSource) *overlay { return &overlay{base: base} }

func (o *overlay) add(r lynch.Record) { o.records = append(o.records, r) }

func (o *overlay) len() int { return len(o.records) }

func (o *overlay) drain() []lynch.Record {
	out := o.records
	o.records = nil
	return out
}

// Series implements lynch.SeriesSource. Pending records replace stored ones of
// the same period.
func (o *overlay) Series(symbol, source string) ([]lynch.Record, error) {
	stored, err := o.base.Series(symbol, source)
	if err != nil {
		return nil, err
	}
	var pending []lynch.Record
	for _, r := range o.records {
		if r.Symbol == symbol && r.Source == source {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		return stored, nil
	}
	out := make([]lynch.Record, 0, len(stored)+len(pending))
	for _, r := range stored {
		if _, ok := lynch.FindPeriod(pending, r.Period); !ok {
			out = append(out, r)
		}
	}
	out = append(out, pending...)
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}
