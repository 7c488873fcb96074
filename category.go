package lynch

import (
	"fmt"
	"strings"
)

// RulesVersion identifies the rule tables below. Bump it whenever a threshold changes.
const RulesVersion = "2024.2"

// Category is one of the six investment styles.
type Category int

const (
	SlowGrowers Category = iota
	Stalwarts
	FastGrowers
	Cyclicals
	Turnarounds
	AssetPlays
)

var categoryNames = [...]string{
	SlowGrowers: "Slow Growers",
	Stalwarts:   "Stalwarts",
	FastGrowers: "Fast Growers",
	Cyclicals:   "Cyclicals",
	Turnarounds: "Turnarounds",
	AssetPlays:  "Asset Plays",
}

var categoryDescriptions = [...]string{
	SlowGrowers: "Slow growing companies paying stable dividends. Suited to defensive investors.",
	Stalwarts:   "Established companies with solid growth. Lower risk with some upside left.",
	FastGrowers: "Fast earnings growth. High return potential, and higher risk.",
	Cyclicals:   "Companies whose results follow the economic cycle.",
	Turnarounds: "Companies recovering from a downturn. Risky, with large potential.",
	AssetPlays:  "Companies sitting on assets the market undervalues.",
}

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{SlowGrowers, Stalwarts, FastGrowers, Cyclicals, Turnarounds, AssetPlays}
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Description explains the investment style.
func (c Category) Description() string { return categoryDescriptions[c] }

// ParseCategory accepts the display name, case and space insensitive ("fast-growers", "Fast Growers").
func ParseCategory(s string) (Category, error) {
	norm := func(s string) string {
		s = strings.ToLower(s)
		return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	}
	for _, c := range Categories() {
		if norm(c.String()) == norm(s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(b []byte) error {
	p, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = p
	return nil
}

// Predicate tests a present value. Predicates reject values of the wrong kind.
type Predicate struct {
	kind Kind
	test func(Value) bool
	desc string
}

// Test reports whether v satisfies p.
func (p Predicate) Test(v Value) bool {
	if p.test == nil || v.Kind() != p.kind {
		return false
	}
	return p.test(v)
}

// Kind returns the kind of value the predicate accepts.
func (p Predicate) Kind() Kind { return p.kind }

func (p Predicate) String() string { return p.desc }

func numeric(desc string, test func(float64) bool) Predicate {
	return Predicate{Number, func(v Value) bool {
		x, _ := v.Float()
		return test(x)
	}, desc}
}

// Below is satisfied by numbers strictly below x.
func Below(x float64) Predicate {
	return numeric(fmt.Sprintf("< %g", x), func(v float64) bool { return v < x })
}

// AtMost is satisfied by numbers lower or equal to x.
func AtMost(x float64) Predicate {
	return numeric(fmt.Sprintf("<= %g", x), func(v float64) bool { return v <= x })
}

// Above is satisfied by numbers strictly above x.
func Above(x float64) Predicate {
	return numeric(fmt.Sprintf("> %g", x), func(v float64) bool { return v > x })
}

// AtLeast is satisfied by numbers greater or equal to x.
func AtLeast(x float64) Predicate {
	return numeric(fmt.Sprintf(">= %g", x), func(v float64) bool { return v >= x })
}

// Between is satisfied by numbers in [lo, hi].
func Between(lo, hi float64) Predicate {
	return numeric(fmt.Sprintf("in [%g, %g]", lo, hi), func(v float64) bool { return lo <= v && v <= hi })
}

// OneOf is satisfied by texts equal to one of values, ignoring case.
func OneOf(values ...string) Predicate {
	set := make(map[string]bool, len(values))
	for _, s := range values {
		set[strings.ToLower(s)] = true
	}
	return Predicate{Text, func(v Value) bool {
		s, _ := v.Text()
		return set[strings.ToLower(strings.TrimSpace(s))]
	}, "one of " + strings.Join(values, ", ")}
}

// IsTrue is satisfied by a true flag.
func IsTrue() Predicate {
	return Predicate{Flag, func(v Value) bool {
		b, _ := v.Bool()
		return b
	}, "is true"}
}

// Rule is one criterion of a category.
//
// Optional rules add to the score like the others but are flagged for display
// and can be weighted separately when ranking.
type Rule struct {
	Field     Field
	Label     string // defaults to the field name
	Predicate Predicate
	Optional  bool
}

// Title returns the label, or the field name when no label was set.
func (r Rule) Title() string {
	if r.Label == "" {
		return r.Field.String()
	}
	return r.Label
}

// RuleSet is the list of rules defining a category.
type RuleSet struct {
	Category Category
	Rules    []Rule
}

// Fields returns the distinct fields referenced by the rule set, in rule order.
func (rs RuleSet) Fields() []Field {
	var fields []Field
	seen := make(map[Field]bool)
	for _, r := range rs.Rules {
		if !seen[r.Field] {
			seen[r.Field] = true
			fields = append(fields, r.Field)
		}
	}
	return fields
}

// Validate checks that every rule uses a field some provider alias, derivation
// or growth computation can fill, with a predicate of the matching kind.
func (rs RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return &ConfigurationError{Table: "rules", Reason: fmt.Sprintf("category %q has no rules", rs.Category)}
	}
	for _, r := range rs.Rules {
		if !r.Field.Valid() {
			return &ConfigurationError{Table: "rules", Field: r.Field, Reason: "unknown field"}
		}
		if len(Aliases(r.Field)) == 0 && !Derivable(r.Field) && !Grown(r.Field) {
			return &ConfigurationError{Table: "rules", Field: r.Field, Reason: fmt.Sprintf("category %q uses a field with no alias and no formula", rs.Category)}
		}
		if r.Predicate.test == nil {
			return &ConfigurationError{Table: "rules", Field: r.Field, Reason: "missing predicate"}
		}
		if r.Predicate.Kind() != r.Field.Kind() {
			return &ConfigurationError{Table: "rules", Field: r.Field, Reason: fmt.Sprintf("predicate expects a %v but the field holds a %v", r.Predicate.Kind(), r.Field.Kind())}
		}
	}
	return nil
}

// cyclicalSectors lists the sectors and industries considered cyclical.
var cyclicalSectors = []string{
	"auto", "automotive", "steel", "construction", "chemicals", "metals",
	"airlines", "travel", "energy", "basic materials",
}

// defaultRuleSets returns a fresh copy of the built-in rule tables.
func defaultRuleSets() []RuleSet {
	return []RuleSet{
		{SlowGrowers, []Rule{
			{EarningsGrowth, "Earnings growth < 5%", Below(0.05), false},
			{DividendYield, "Dividend yield 3-9%", Between(0.03, 0.09), false},
			{PayoutRatio, "Payout ratio < 80%", Below(0.80), false},
			{RevenueGrowth, "Revenue growth < 5%", Below(0.05), false},
			{PERatio, "Low P/E (< 15)", Below(15), true},
			{DebtToAssets, "Debt/Assets < 0.5", Below(0.5), true},
		}},
		{Stalwarts, []Rule{
			{EarningsGrowth, "Earnings growth 5-10%", Between(0.05, 0.10), false},
			{DividendYield, "Dividend yield >= 2%", AtLeast(0.02), false},
			{PERatio, "P/E < 25", Below(25), false},
			{MarketCap, "Market cap > 10B", AtLeast(10e9), false},
			{FreeCashFlow, "Free cash flow > 0", Above(0), false},
			{DebtToAssets, "Debt/Assets < 0.5", Below(0.5), true},
		}},
		{FastGrowers, []Rule{
			{EarningsGrowth, "Earnings growth > 20%", Above(0.20), false},
			{RevenueGrowth, "Revenue growth > 20%", Above(0.20), false},
			{PERatio, "P/E < 25", Below(25), false},
			{PEGRatio, "PEG < 1", Below(1), true},
			{DebtToAssets, "Low Debt/Assets (< 0.5)", Below(0.5), true},
			{PriceToBook, "Moderate P/B (< 4)", Below(4), true},
		}},
		{Cyclicals, []Rule{
			{Sector, "Cyclical sector", OneOf(cyclicalSectors...), false},
			{RevenueGrowth, "Revenue recovering (> 5%)", Above(0.05), false},
			{EPSGrowth, "Earnings rising (> 0%)", Above(0), false},
			{PERatio, "P/E < 25", Below(25), false},
			{FreeCashFlowPerShare, "FCF per share > 0", Above(0), false},
			{DebtToAssets, "Debt/Assets < 0.5", Below(0.5), true},
		}},
		{Turnarounds, []Rule{
			{CashToDebt, "Cash >= 50% of debt", AtLeast(0.5), false},
			{EquityRatio, "Equity ratio > 30%", Above(0.30), false},
			{FCFMargin, "FCF margin >= 5%", AtLeast(0.05), false},
			{RevenueGrowth, "Revenue growing again (> 0%)", Above(0), false},
			{SGATrend, "SG&A ratio declining", IsTrue(), true},
			{CurrentRatio, "Liquidity (current ratio >= 1)", AtLeast(1), false},
		}},
		{AssetPlays, []Rule{
			{PriceToBook, "P/B < 1", Below(1), false},
			{BookValuePerShare, "Positive book value per share", Above(0), false},
			{CashPerShare, "Cash per share > 5", Above(5), false},
			{PERatio, "P/E < 20", Below(20), true},
			{DebtToAssets, "Debt/Assets < 0.5", Below(0.5), true},
			{MarketCap, "Rather small (< 10B)", Below(10e9), true},
		}},
	}
}

// DefaultRuleSets returns the built-in rule sets, one per category in display
// order. Each call returns a new slice so callers cannot alter the tables.
func DefaultRuleSets() []RuleSet { return defaultRuleSets() }

// RequiredFields returns the fields referenced by rule sets, in canonical
// order. This is the default checklist of the missing field report.
func RequiredFields(sets []RuleSet) []Field {
	used := make(map[Field]bool)
	for _, rs := range sets {
		for _, f := range rs.Fields() {
			used[f] = true
		}
	}
	var fields []Field
	for _, f := range Fields() {
		if used[f] {
			fields = append(fields, f)
		}
	}
	return fields
}

func init() {
	for _, rs := range defaultRuleSets() {
		if err := rs.Validate(); err != nil {
			panic(err)
		}
	}
}
