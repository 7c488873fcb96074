package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/date"
)

// Status is the outcome of one symbol.
type Status int

const (
	Failed  Status = iota
	Stored         // every provider answered
	Partial        // stored, but some providers failed
)

func (s Status) String() string {
	switch s {
	case Stored:
		return "stored"
	case Partial:
		return "partial"
	default:
		return "failed"
	}
}

// Outcome describes the ingestion of one symbol.
type Outcome struct {
	Symbol string
	Status Status
	// Providers that returned data.
	Providers   []string
	RateLimited []string
	// Records is the number of quarters reconciled.
	Records int
	Latest  date.Quarter
	// Missing lists the required fields absent from the latest record.
	Missing []lynch.Field
	Err     error
}

// Report summarizes a batch.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Outcomes []Outcome
}

// Stored returns the number of records stored.
func (r Report) Stored() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status != Failed {
			n += o.Records
		}
	}
	return n
}

// Failed returns the outcomes of the symbols that could not be ingested.
func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == Failed {
			out = append(out, o)
		}
	}
	return out
}

// RateLimited returns the symbols for which at least one provider hit its quota.
// They are worth retrying later.
func (r Report) RateLimited() []string {
	var out []string
	for _, o := range r.Outcomes {
		if len(o.RateLimited) > 0 {
			out = append(out, o.Symbol)
		}
	}
	return out
}

// ReadSymbols reads a JSON list of ticker symbols, the format of the symbol
// cache files ("sp500_symbols.json").
func ReadSymbols(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read symbols: %w", err)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("cannot decode symbols in %q: %w", path, err)
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = Normalize(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}
