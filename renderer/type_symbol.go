package renderer

import (
	"slices"

	"github.com/etnz/lynch"
)

// KeyMetrics are the fields shown in a symbol view.
var KeyMetrics = []lynch.Field{
	lynch.FreeCashFlow,
	lynch.RevenueGrowth,
	lynch.ProfitMargin,
	lynch.TotalDebt,
	lynch.QuickRatio,
	lynch.CurrentRatio,
	lynch.CashPerShare,
	lynch.Beta,
}

// Symbol is the view of a symbol record and its category fit.
type Symbol struct {
	Symbol     string
	Period     string
	Date       string
	Source     string
	Sector     string
	Industry   string
	Verdict    Verdict
	Metrics    []Metric
	Categories []CategoryFit
	Missing    []string
}

type Verdict struct {
	Label        string
	Percent      float64
	Phrase       string
	Tied         bool
	Descriptions []string
}

type Metric struct {
	Label       string
	Value       string
	Description string
}

// CategoryFit is the score of a record against one category.
type CategoryFit struct {
	Name     string
	Best     bool
	Score    int
	MaxScore int
	Percent  float64
	Rules    []Rule
}

type Rule struct {
	Label     string
	Condition string
	Value     string
	Present   bool
	Satisfied bool
	Optional  bool
}

// Mark is the status icon of the rule.
func (r Rule) Mark() string {
	switch {
	case !r.Present:
		return "?"
	case r.Satisfied:
		return "✅"
	default:
		return "❌"
	}
}

// NewSymbol builds the view of rec classified by c.
func NewSymbol(rec lynch.Record, c *lynch.Classifier) *Symbol {
	s := &Symbol{
		Symbol: rec.Symbol,
		Period: rec.Period.String(),
		Date:   rec.Date().String(),
		Source: rec.Source,
	}
	if v, ok := rec.Get(lynch.Sector); ok {
		s.Sector = v.String()
	}
	if v, ok := rec.Get(lynch.Industry); ok {
		s.Industry = v.String()
	}

	verdict := c.Best(rec)
	s.Verdict = Verdict{Label: verdict.Label(), Percent: verdict.Percent, Phrase: verdict.Phrase(), Tied: verdict.Tied()}
	for _, cat := range verdict.Best {
		s.Verdict.Descriptions = append(s.Verdict.Descriptions, cat.Description())
	}

	for _, f := range KeyMetrics {
		s.Metrics = append(s.Metrics, Metric{Label: f.String(), Value: Format(rec, f), Description: f.Description()})
	}

	for _, res := range verdict.Results {
		fit := CategoryFit{
			Name:     res.Category.String(),
			Best:     slices.Contains(verdict.Best, res.Category),
			Score:    res.Score,
			MaxScore: res.MaxScore,
			Percent:  res.Percent(),
		}
		for _, d := range res.Details {
			r := Rule{Label: d.Label, Condition: d.Condition, Value: "n/a", Present: d.Present, Satisfied: d.Satisfied, Optional: d.Optional}
			if d.Present {
				r.Value = FormatValue(d.Field, d.Value)
			}
			fit.Rules = append(fit.Rules, r)
		}
		s.Categories = append(s.Categories, fit)
	}

	for _, f := range rec.Missing {
		s.Missing = append(s.Missing, f.String())
	}
	return s
}
