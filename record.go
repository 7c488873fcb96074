package lynch

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/etnz/lynch/date"
)

// Record is the canonical metric record for one (symbol, period, source).
//
// Values only holds present fields. A Record handed to a store is never
// mutated; a later ingestion produces a new Record.
type Record struct {
	Symbol string
	Period date.Quarter
	Source string
	Values map[Field]Value
	// Missing lists required fields that could not be filled, in canonical order.
	Missing []Field
}

// Date returns the last day of the record's period.
func (r Record) Date() date.Date { return r.Period.End() }

// ID returns the document identity {symbol}|{date}|{source}.
func (r Record) ID() string { return DocumentID(r.Symbol, r.Date(), r.Source) }

// DocumentID builds the store identity of a record.
func DocumentID(symbol string, on date.Date, source string) string {
	return fmt.Sprintf("%s|%s|%s", symbol, on, source)
}

// Get returns the value of f if present.
func (r Record) Get(f Field) (Value, bool) {
	v, ok := r.Values[f]
	return v, ok
}

// Number returns the numeric value of f if present.
func (r Record) Number(f Field) (float64, bool) { return num(r.Values, f) }

// Has reports whether f is present.
func (r Record) Has(f Field) bool {
	_, ok := r.Values[f]
	return ok
}

// jrecord is the json proxy of a Record.
type jrecord struct {
	Symbol  string           `json:"symbol"`
	Period  date.Quarter     `json:"period"`
	Date    date.Date        `json:"date"`
	Source  string           `json:"source"`
	Metrics map[string]Value `json:"metrics"`
	Missing []Field          `json:"missing,omitempty"`
}

// MarshalJSON encodes the record with metrics keyed by canonical name. Map keys
// are sorted by encoding/json, so equal records encode to identical bytes.
func (r Record) MarshalJSON() ([]byte, error) {
	j := jrecord{
		Symbol:  r.Symbol,
		Period:  r.Period,
		Date:    r.Date(),
		Source:  r.Source,
		Metrics: make(map[string]Value, len(r.Values)),
		Missing: r.Missing,
	}
	for f, v := range r.Values {
		j.Metrics[f.String()] = v
	}
	return json.Marshal(j)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var j jrecord
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	values := make(map[Field]Value, len(j.Metrics))
	for name, v := range j.Metrics {
		f, err := ParseField(name)
		if err != nil {
			return err
		}
		if v.Kind() != f.Kind() {
			return fmt.Errorf("metric %q: got a %v, want a %v", name, v.Kind(), f.Kind())
		}
		values[f] = v
	}
	*r = Record{
		Symbol:  j.Symbol,
		Period:  j.Period,
		Source:  j.Source,
		Values:  values,
		Missing: j.Missing,
	}
	return nil
}

// SortDescending orders records from the most recent period to the oldest.
func SortDescending(records []Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Period.After(records[j].Period) })
}

// FindPeriod returns the record of series labelled q.
func FindPeriod(series []Record, q date.Quarter) (Record, bool) {
	for _, r := range series {
		if r.Period == q {
			return r, true
		}
	}
	return Record{}, false
}
