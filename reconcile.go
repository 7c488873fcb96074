package lynch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/etnz/lynch/date"
	"github.com/rs/zerolog"
)

// DefaultSource is the source name of reconciled records.
const DefaultSource = "consolidated"

// DefaultPriority is the provider order used when none is configured.
var DefaultPriority = []string{"alphavantage", "fmp", "eodhd"}

// SeriesSource returns the stored records of a symbol for a source, in
// chronological order. It is the historical series the growth calculator needs.
type SeriesSource interface {
	Series(symbol, source string) ([]Record, error)
}

// ReconcilerConfig configures a Reconciler. Zero values select the defaults.
type ReconcilerConfig struct {
	Priority  []string // provider names, most trusted first
	Source    string   // source name of the produced records
	YoYLag    int
	SGAWindow int
	// Required is the checklist of the missing field report. It defaults to
	// the fields referenced by the built-in rule sets.
	Required []Field
	// History provides earlier periods. Without it growth is only computed
	// from what providers supply directly.
	History SeriesSource
	Logger  zerolog.Logger
}

// Reconciler merges raw provider records into canonical records.
type Reconciler struct {
	priority map[string]int
	source   string
	growth   GrowthOptions
	required []Field
	history  SeriesSource
	resolver *Resolver
	log      zerolog.Logger
}

// NewReconciler returns a Reconciler for cfg.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	r := &Reconciler{
		priority: make(map[string]int),
		source:   cfg.Source,
		growth:   GrowthOptions{YoYLag: cfg.YoYLag, SGAWindow: cfg.SGAWindow}.withDefaults(),
		required: cfg.Required,
		history:  cfg.History,
		resolver: NewResolver(cfg.Logger),
		log:      cfg.Logger,
	}
	prio := cfg.Priority
	if len(prio) == 0 {
		prio = DefaultPriority
	}
	for i, p := range prio {
		p = strings.ToLower(strings.TrimSpace(p))
		if _, dup := r.priority[p]; !dup {
			r.priority[p] = i
		}
	}
	if r.source == "" {
		r.source = DefaultSource
	}
	if r.required == nil {
		r.required = RequiredFields(defaultRuleSets())
	}
	return r
}

// Source returns the source name of the records r produces.
func (r *Reconciler) Source() string { return r.source }

// less orders providers: configured ones by priority, unknown ones after, by name.
func (r *Reconciler) less(a, b string) bool {
	pa, oka := r.priority[strings.ToLower(a)]
	pb, okb := r.priority[strings.ToLower(b)]
	switch {
	case oka && okb:
		return pa < pb
	case oka != okb:
		return oka
	default:
		return a < b
	}
}

// Reconcile builds the canonical record of symbol for period q out of raws.
//
// For each field the first provider in priority order that resolves it wins.
// Derived ratios and growth rates then fill the gaps, never overwriting a
// value a provider supplied. Raws for other symbols or periods are ignored.
// It returns ErrNoUsableData when no raw record resolves any field.
func (r *Reconciler) Reconcile(symbol string, q date.Quarter, raws []RawRecord) (Record, error) {
	var usable []RawRecord
	for _, raw := range raws {
		if !strings.EqualFold(raw.Symbol, symbol) || raw.Period != q {
			continue
		}
		usable = append(usable, raw)
	}
	sort.SliceStable(usable, func(i, j int) bool { return r.less(usable[i].Provider, usable[j].Provider) })

	values := make(map[Field]Value)
	for _, raw := range usable {
		for f, v := range r.resolver.ResolveAll(raw) {
			if _, done := values[f]; !done {
				values[f] = v
			}
		}
	}
	if len(values) == 0 {
		r.log.Warn().Str("symbol", symbol).Stringer("period", q).Int("raws", len(raws)).Msg("no usable provider data")
		return Record{}, fmt.Errorf("reconcile %s %v: %w", symbol, q, ErrNoUsableData)
	}

	values = DeriveAll(values)

	cur := Record{Symbol: symbol, Period: q, Source: r.source, Values: values}
	series := append([]Record{cur}, r.earlier(symbol, q)...)
	for f, v := range Growth(series, r.growth) {
		if _, present := values[f]; !present {
			values[f] = v
		}
	}
	// second pass for formulas depending on growth (pegRatio)
	values = DeriveAll(values)

	rec := Record{Symbol: symbol, Period: q, Source: r.source, Values: values}
	for _, f := range r.required {
		if !rec.Has(f) {
			rec.Missing = append(rec.Missing, f)
		}
	}
	sortFields(rec.Missing)
	if len(rec.Missing) > 0 {
		r.log.Debug().Str("symbol", symbol).Stringer("period", q).Int("missing", len(rec.Missing)).Msg("incomplete record")
	}
	return rec, nil
}

// earlier returns the stored records of symbol strictly before q, most recent first.
func (r *Reconciler) earlier(symbol string, q date.Quarter) []Record {
	if r.history == nil {
		return nil
	}
	all, err := r.history.Series(symbol, r.source)
	if err != nil {
		r.log.Warn().Err(err).Str("symbol", symbol).Msg("cannot read history, growth limited to provider values")
		return nil
	}
	var prior []Record
	for _, rec := range all {
		if rec.Period.Before(q) {
			prior = append(prior, rec)
		}
	}
	SortDescending(prior)
	return prior
}

func sortFields(fields []Field) {
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
}
