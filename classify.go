package lynch

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultEpsilon is the ratio difference under which two categories are tied.
const DefaultEpsilon = 0.02

// ClassifierConfig configures a Classifier. Zero values select the defaults.
type ClassifierConfig struct {
	// RuleSets defaults to DefaultRuleSets().
	RuleSets []RuleSet
	// Epsilon is the tie tolerance on ratios. Negative values mean exact ties only.
	Epsilon float64
	// OptionalWeight is the weight of optional rules in the ranking ratio.
	// Required rules weigh 1. Zero selects 1.
	OptionalWeight float64
}

// Classifier scores canonical records against category rule sets.
type Classifier struct {
	sets           []RuleSet
	epsilon        float64
	optionalWeight float64
}

// NewClassifier validates cfg and returns a Classifier. It fails with a
// *ConfigurationError when a rule uses a field nothing can fill.
func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	c := &Classifier{
		sets:           cfg.RuleSets,
		epsilon:        cfg.Epsilon,
		optionalWeight: cfg.OptionalWeight,
	}
	if c.sets == nil {
		c.sets = defaultRuleSets()
	}
	if c.epsilon == 0 {
		c.epsilon = DefaultEpsilon
	}
	if c.epsilon < 0 {
		c.epsilon = 0
	}
	if c.optionalWeight == 0 {
		c.optionalWeight = 1
	}
	if c.optionalWeight < 0 || math.IsNaN(c.optionalWeight) || math.IsInf(c.optionalWeight, 0) {
		return nil, &ConfigurationError{Table: "rules", Reason: fmt.Sprintf("invalid optional weight %v", cfg.OptionalWeight)}
	}
	seen := make(map[Category]bool)
	for _, rs := range c.sets {
		if seen[rs.Category] {
			return nil, &ConfigurationError{Table: "rules", Reason: fmt.Sprintf("duplicate rule set for %q", rs.Category)}
		}
		seen[rs.Category] = true
		if err := rs.Validate(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultClassifier returns a classifier on the built-in rules with default settings.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(ClassifierConfig{})
	if err != nil {
		panic(err) // the built-in tables are validated at init
	}
	return c
}

// RuleSets returns the classifier rule sets.
func (c *Classifier) RuleSets() []RuleSet { return c.sets }

// RuleSet returns the rule set of cat.
func (c *Classifier) RuleSet(cat Category) (RuleSet, bool) {
	for _, rs := range c.sets {
		if rs.Category == cat {
			return rs, true
		}
	}
	return RuleSet{}, false
}

// Detail is the outcome of one rule.
type Detail struct {
	Field     Field
	Label     string
	Condition string
	Value     Value
	Present   bool
	Satisfied bool
	Optional  bool
}

// Result is the ClassificationResult of one record against one rule set.
type Result struct {
	Category Category
	Score    int
	MaxScore int
	// Ratio is the weighted share of satisfied rules, in [0, 1].
	Ratio   float64
	Details []Detail
}

// Percent returns Score/MaxScore as a percentage rounded to one decimal.
func (r Result) Percent() float64 { return percent(r.Score, r.MaxScore) }

// RequiredScore counts satisfied required rules.
func (r Result) RequiredScore() (satisfied, total int) {
	for _, d := range r.Details {
		if d.Optional {
			continue
		}
		total++
		if d.Satisfied {
			satisfied++
		}
	}
	return
}

func percent(score, max int) float64 {
	if max == 0 {
		return 0
	}
	return math.Round(float64(score)/float64(max)*1000) / 10
}

// Classify evaluates r against rs. Absent fields and values of the wrong kind
// make their rule unsatisfied.
func (c *Classifier) Classify(r Record, rs RuleSet) Result {
	res := Result{
		Category: rs.Category,
		MaxScore: len(rs.Rules),
		Details:  make([]Detail, 0, len(rs.Rules)),
	}
	var got, total float64
	for _, rule := range rs.Rules {
		v, present := r.Get(rule.Field)
		d := Detail{
			Field:     rule.Field,
			Label:     rule.Title(),
			Condition: rule.Predicate.String(),
			Value:     v,
			Present:   present,
			Optional:  rule.Optional,
		}
		d.Satisfied = present && rule.Predicate.Test(v)

		w := 1.0
		if rule.Optional {
			w = c.optionalWeight
		}
		total += w
		if d.Satisfied {
			res.Score++
			got += w
		}
		res.Details = append(res.Details, d)
	}
	if total > 0 {
		res.Ratio = got / total
	}
	return res
}

// ClassifyAll evaluates r against every rule set, in rule set order.
func (c *Classifier) ClassifyAll(r Record) []Result {
	results := make([]Result, 0, len(c.sets))
	for _, rs := range c.sets {
		results = append(results, c.Classify(r, rs))
	}
	return results
}

// Verdict is the best category fit of a record.
type Verdict struct {
	// Best holds every category whose ratio is within epsilon of the highest.
	// It has more than one element when categories are tied.
	Best    []Category
	Ratio   float64 // highest ratio
	Percent float64 // highest ratio as a percentage, one decimal
	Results []Result
}

// Tied reports whether more than one category shares the best fit.
func (v Verdict) Tied() bool { return len(v.Best) > 1 }

// Label joins the best categories for display.
func (v Verdict) Label() string {
	names := make([]string, len(v.Best))
	for i, c := range v.Best {
		names[i] = c.String()
	}
	return strings.Join(names, " / ")
}

// Phrase compares the best fit with the other categories.
func (v Verdict) Phrase() string { return ComparisonPhrase(v.Percent) }

// Result returns the result of cat.
func (v Verdict) Result(cat Category) (Result, bool) {
	for _, r := range v.Results {
		if r.Category == cat {
			return r, true
		}
	}
	return Result{}, false
}

// ComparisonPhrase qualifies a best fit percentage.
func ComparisonPhrase(pct float64) string {
	switch {
	case pct < 70:
		return "other categories match even less"
	case pct < 90:
		return "other categories show some match"
	default:
		return "clearly the best fit"
	}
}

// Best classifies r against every rule set and returns the categories with the
// highest ratio. Categories within epsilon of the maximum are all returned, in
// rule set order.
func (c *Classifier) Best(r Record) Verdict { return c.verdict(c.ClassifyAll(r)) }

func (c *Classifier) verdict(results []Result) Verdict {
	v := Verdict{Results: results}
	if len(results) == 0 {
		return v
	}
	top := results[0]
	for _, res := range results[1:] {
		if res.Ratio > top.Ratio {
			top = res
		}
	}
	for _, res := range results {
		// a small tolerance absorbs float noise on exact ties
		if res.Ratio >= top.Ratio-c.epsilon-1e-9 {
			v.Best = append(v.Best, res.Category)
		}
	}
	v.Ratio = top.Ratio
	v.Percent = math.Round(top.Ratio*1000) / 10
	return v
}

// Filter restricts a ranking. Zero values disable each criterion.
type Filter struct {
	Industries   []string // case-insensitive match on industry, or sector when industry is absent
	MinMarketCap float64
	MaxMarketCap float64
}

func (f Filter) match(r Record) bool {
	if len(f.Industries) > 0 {
		v, ok := r.Get(Industry)
		if !ok {
			v, ok = r.Get(Sector)
		}
		if !ok {
			return false
		}
		s, _ := v.Text()
		found := false
		for _, ind := range f.Industries {
			if strings.EqualFold(strings.TrimSpace(ind), strings.TrimSpace(s)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinMarketCap > 0 || f.MaxMarketCap > 0 {
		mc, ok := r.Number(MarketCap)
		if !ok {
			return false
		}
		if f.MinMarketCap > 0 && mc < f.MinMarketCap {
			return false
		}
		if f.MaxMarketCap > 0 && mc > f.MaxMarketCap {
			return false
		}
	}
	return true
}

// Ranked is one line of a ranking.
type Ranked struct {
	Record Record
	Result Result
}

// Rank scores records against the rule set of cat and returns them ordered by
// score, then ratio, both descending, then by symbol. Records not matching
// filter are skipped. n <= 0 returns all of them.
func (c *Classifier) Rank(records []Record, cat Category, filter Filter, n int) ([]Ranked, error) {
	rs, ok := c.RuleSet(cat)
	if !ok {
		return nil, fmt.Errorf("no rule set for category %q", cat)
	}
	var ranked []Ranked
	for _, r := range records {
		if !filter.match(r) {
			continue
		}
		ranked = append(ranked, Ranked{Record: r, Result: c.Classify(r, rs)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Result, ranked[j].Result
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Ratio != b.Ratio {
			return a.Ratio > b.Ratio
		}
		return ranked[i].Record.Symbol < ranked[j].Record.Symbol
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
