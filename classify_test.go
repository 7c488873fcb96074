package lynch

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/lynch/date"
)

func record(symbol string, v map[Field]Value) Record {
	return Record{Symbol: symbol, Period: date.MustParseQuarter("2024-Q3"), Source: DefaultSource, Values: v}
}

func TestClassify_Score(t *testing.T) {
	c := DefaultClassifier()
	rs, _ := c.RuleSet(FastGrowers)
	// required rules satisfied except the P/E, one optional rule out of three
	r := record("FAST", values(map[Field]float64{
		EarningsGrowth: 0.30,
		RevenueGrowth:  0.25,
		PERatio:        40,
		PEGRatio:       0.9,
		DebtToAssets:   0.7,
	}))
	res := c.Classify(r, rs)
	if res.Score != 3 || res.MaxScore != 6 {
		t.Errorf("Classify() score = %d/%d, want 3/6", res.Score, res.MaxScore)
	}
	if got := res.Percent(); got != 50 {
		t.Errorf("Classify().Percent() = %v, want 50", got)
	}
	if sat, total := res.RequiredScore(); sat != 2 || total != 3 {
		t.Errorf("Classify().RequiredScore() = %d/%d, want 2/3", sat, total)
	}
	last := res.Details[len(res.Details)-1]
	if last.Field != PriceToBook || last.Present || last.Satisfied || !last.Optional {
		t.Errorf("Classify() last detail = %+v, want absent unsatisfied optional priceToBook", last)
	}
}

func TestClassify_FourOfSix(t *testing.T) {
	rs := RuleSet{Category: Stalwarts, Rules: []Rule{
		{Field: PERatio, Predicate: Below(25)},
		{Field: MarketCap, Predicate: AtLeast(10e9)},
		{Field: DividendYield, Predicate: AtLeast(0.02), Optional: true},
		{Field: FreeCashFlow, Predicate: Above(0), Optional: true},
		{Field: DebtToAssets, Predicate: Below(0.5), Optional: true},
		{Field: PriceToBook, Predicate: Below(4), Optional: true},
	}}
	c, err := NewClassifier(ClassifierConfig{RuleSets: []RuleSet{rs}})
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	r := record("XYZ", values(map[Field]float64{
		PERatio:       12,
		MarketCap:     20e9,
		DividendYield: 0.03,
		FreeCashFlow:  1e6,
		DebtToAssets:  0.9,
		PriceToBook:   7,
	}))
	res := c.Classify(r, rs)
	if res.Score != 4 || res.MaxScore != 6 || res.Percent() != 66.7 {
		t.Errorf("Classify() = %d/%d %v%%, want 4/6 66.7%%", res.Score, res.MaxScore, res.Percent())
	}
	if res.Details[0].Label != "peRatio" {
		t.Errorf("Classify() label = %q, want the field name", res.Details[0].Label)
	}
}

func TestClassify_WrongKindAndAbsent(t *testing.T) {
	c := DefaultClassifier()
	rs, _ := c.RuleSet(Cyclicals)
	v := values(map[Field]float64{RevenueGrowth: 0.1})
	v[Sector] = TextValue("STEEL")
	res := c.Classify(record("CYC", v), rs)
	if !res.Details[0].Satisfied {
		t.Errorf("Classify() sector STEEL unsatisfied, want a case insensitive match")
	}
	if res.Score != 2 {
		t.Errorf("Classify() score = %d, want 2", res.Score)
	}

	v = map[Field]Value{Sector: FlagValue(true)}
	res = c.Classify(record("CYC", v), rs)
	if res.Score != 0 {
		t.Errorf("Classify() score = %d, want 0 for a flag in a text field", res.Score)
	}
}

func TestBest_Tie(t *testing.T) {
	results := []Result{
		{Category: SlowGrowers, Ratio: 0.60},
		{Category: Stalwarts, Ratio: 0.61},
		{Category: FastGrowers, Ratio: 0.40},
	}
	c := DefaultClassifier()
	v := c.verdict(results)
	if want := []Category{SlowGrowers, Stalwarts}; !slices.Equal(v.Best, want) {
		t.Errorf("Best = %v, want %v", v.Best, want)
	}
	if !v.Tied() || v.Ratio != 0.61 || v.Percent != 61 {
		t.Errorf("verdict = %+v, want a tie at 0.61", v)
	}
	if got, want := v.Label(), "Slow Growers / Stalwarts"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestBest_Epsilon(t *testing.T) {
	exact, err := NewClassifier(ClassifierConfig{Epsilon: -1})
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	v := exact.verdict([]Result{{Category: SlowGrowers, Ratio: 0.60}, {Category: Stalwarts, Ratio: 0.61}})
	if want := []Category{Stalwarts}; !slices.Equal(v.Best, want) {
		t.Errorf("Best = %v, want %v", v.Best, want)
	}
}

func TestBest(t *testing.T) {
	c := DefaultClassifier()
	v := values(map[Field]float64{
		PriceToBook:       0.6,
		BookValuePerShare: 20,
		CashPerShare:      8,
		PERatio:           9,
		DebtToAssets:      0.2,
		MarketCap:         2e9,
	})
	verdict := c.Best(record("ASSET", v))
	if want := []Category{AssetPlays}; !slices.Equal(verdict.Best, want) {
		t.Fatalf("Best() = %v, want %v", verdict.Best, want)
	}
	if verdict.Percent != 100 || verdict.Phrase() != "clearly the best fit" {
		t.Errorf("Best() = %v%% %q, want 100%% clearly the best fit", verdict.Percent, verdict.Phrase())
	}
	if len(verdict.Results) != 6 {
		t.Errorf("Best() has %d results, want 6", len(verdict.Results))
	}

	// nothing known: every category ties at 0
	verdict = c.Best(record("EMPTY", nil))
	if len(verdict.Best) != 6 || verdict.Percent != 0 {
		t.Errorf("Best(empty) = %v %v%%, want all six at 0%%", verdict.Best, verdict.Percent)
	}
}

func TestOptionalWeight(t *testing.T) {
	c, err := NewClassifier(ClassifierConfig{OptionalWeight: 0.5})
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	rs, _ := c.RuleSet(SlowGrowers)
	// all four required rules satisfied, both optional ones not
	r := record("SLOW", values(map[Field]float64{
		EarningsGrowth: 0.01,
		DividendYield:  0.05,
		PayoutRatio:    0.5,
		RevenueGrowth:  0.02,
		PERatio:        30,
	}))
	res := c.Classify(r, rs)
	if res.Score != 4 || res.Ratio != 0.8 {
		t.Errorf("Classify() = %d %v, want 4 0.8", res.Score, res.Ratio)
	}
}

func TestComparisonPhrase(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{50, "other categories match even less"},
		{69.9, "other categories match even less"},
		{70, "other categories show some match"},
		{89.9, "other categories show some match"},
		{90, "clearly the best fit"},
	}
	for _, test := range tests {
		if got := ComparisonPhrase(test.pct); got != test.want {
			t.Errorf("ComparisonPhrase(%v) = %q, want %q", test.pct, got, test.want)
		}
	}
}

func TestNewClassifier_ConfigurationError(t *testing.T) {
	tests := []struct {
		name string
		sets []RuleSet
	}{
		{"unknown field", []RuleSet{{Category: Stalwarts, Rules: []Rule{{Field: CashToDebt, Predicate: Above(0)}, {Field: Field(0), Predicate: Above(0)}}}}},
		{"wrong kind", []RuleSet{{Category: Stalwarts, Rules: []Rule{{Field: Sector, Predicate: Above(0)}}}}},
		{"empty", []RuleSet{{Category: Stalwarts}}},
		{"duplicate", []RuleSet{
			{Category: Stalwarts, Rules: []Rule{{Field: PERatio, Predicate: Above(0)}}},
			{Category: Stalwarts, Rules: []Rule{{Field: PERatio, Predicate: Above(0)}}},
		}},
	}
	for _, test := range tests {
		_, err := NewClassifier(ClassifierConfig{RuleSets: test.sets})
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) {
			t.Errorf("NewClassifier(%s) error = %v, want a ConfigurationError", test.name, err)
		}
	}
}

func TestRuleSet_UnfillableField(t *testing.T) {
	saved := aliases[Inventory]
	delete(aliases, Inventory)
	defer func() { aliases[Inventory] = saved }()

	rs := RuleSet{Category: Turnarounds, Rules: []Rule{{Field: Inventory, Predicate: Above(0)}}}
	var cerr *ConfigurationError
	if err := rs.Validate(); !errors.As(err, &cerr) || cerr.Field != Inventory {
		t.Errorf("Validate() = %v, want a ConfigurationError on inventory", err)
	}
}

func TestDefaultRuleSets(t *testing.T) {
	sets := DefaultRuleSets()
	if len(sets) != 6 {
		t.Fatalf("DefaultRuleSets() has %d sets, want 6", len(sets))
	}
	for i, rs := range sets {
		if rs.Category != Categories()[i] {
			t.Errorf("DefaultRuleSets()[%d] = %v, want %v", i, rs.Category, Categories()[i])
		}
		if n := len(rs.Rules); n < 4 || n > 6 {
			t.Errorf("%v has %d rules, want 4 to 6", rs.Category, n)
		}
	}
	sets[0].Rules[0].Label = "changed"
	if DefaultRuleSets()[0].Rules[0].Label == "changed" {
		t.Errorf("DefaultRuleSets() shares its tables with callers")
	}
}

func TestRank(t *testing.T) {
	c := DefaultClassifier()
	mk := func(symbol, industry string, mc, pb float64) Record {
		v := values(map[Field]float64{MarketCap: mc, PriceToBook: pb, BookValuePerShare: 10, CashPerShare: 6})
		v[Industry] = TextValue(industry)
		return record(symbol, v)
	}
	records := []Record{
		mk("BBB", "Steel", 1e9, 0.5),
		mk("AAA", "Steel", 1e9, 0.5),
		mk("CCC", "Banks", 1e9, 2),
		mk("DDD", "Steel", 50e9, 0.5),
	}

	got, err := c.Rank(records, AssetPlays, Filter{}, 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	var symbols []string
	for _, r := range got {
		symbols = append(symbols, r.Record.Symbol)
	}
	if want := []string{"AAA", "BBB", "CCC"}; !slices.Equal(symbols, want) {
		t.Errorf("Rank() = %v, want %v", symbols, want)
	}

	got, _ = c.Rank(records, AssetPlays, Filter{Industries: []string{"banks"}, MaxMarketCap: 10e9}, 0)
	if len(got) != 1 || got[0].Record.Symbol != "CCC" {
		t.Errorf("Rank(banks) = %v, want CCC only", got)
	}
}
