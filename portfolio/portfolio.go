package portfolio

import (
	"fmt"
	"time"

	"github.com/etnz/lynch"
	"github.com/shopspring/decimal"
)

// Selection is the symbols picked for each category under a strategy.
type Selection struct {
	Strategy string
	Industry string // filter the candidates were drawn from, "" for all
	Note     string
	SavedAt  time.Time
	Picks    map[lynch.Category][]string
}

// Count returns the number of picked symbols.
func (s Selection) Count() int {
	n := 0
	for _, p := range s.Picks {
		n += len(p)
	}
	return n
}

// Allocation compares the recommended and the actual share of a category.
// The actual share counts positions, each picked symbol weighing the same.
type Allocation struct {
	Category    lynch.Category
	Recommended Percent
	Actual      Percent
	Difference  Percent // Actual - Recommended
	Symbols     []string
}

// Position is a picked symbol and the capital it receives.
type Position struct {
	Symbol   string
	Category lynch.Category
	Amount   Money
	Weight   Percent // of the capital
}

// Portfolio is a selection assembled under a strategy.
type Portfolio struct {
	Strategy    Strategy
	Selection   Selection
	Allocations []Allocation
	Capital     Money
	Positions   []Position
	// Unallocated is the capital of recommended categories without picks.
	Unallocated Money
}

// Assemble compares sel with the strategy and splits capital: each category
// receives its recommended share, divided equally between its symbols.
// A zero capital only computes the allocations.
func Assemble(st Strategy, sel Selection, capital Money) (Portfolio, error) {
	if err := st.Validate(); err != nil {
		return Portfolio{}, err
	}
	seen := make(map[string]lynch.Category)
	for cat, symbols := range sel.Picks {
		for _, s := range symbols {
			if prev, dup := seen[s]; dup {
				return Portfolio{}, fmt.Errorf("%s is selected in %v and %v", s, prev, cat)
			}
			seen[s] = cat
		}
	}

	p := Portfolio{Strategy: st, Selection: sel, Capital: capital, Unallocated: M(decimal.Zero, capital.Currency())}
	total := decimal.NewFromInt(int64(sel.Count()))
	hundred := decimal.NewFromInt(100)
	for _, cat := range lynch.Categories() {
		a := Allocation{Category: cat, Recommended: st.Target(cat), Actual: pct(decimal.Zero), Symbols: sel.Picks[cat]}
		if !total.IsZero() {
			n := decimal.NewFromInt(int64(len(a.Symbols)))
			a.Actual = pct(n.Mul(hundred).Div(total).Round(1))
		}
		a.Difference = pct(a.Actual.Sub(a.Recommended.Decimal))
		p.Allocations = append(p.Allocations, a)
	}
	if capital.IsZero() {
		return p, nil
	}

	// weights in basis points, to allow fractional targets
	weights := make([]int, len(p.Allocations))
	for i, a := range p.Allocations {
		weights[i] = int(a.Recommended.Mul(hundred).IntPart())
	}
	shares, err := capital.Allocate(weights...)
	if err != nil {
		return Portfolio{}, err
	}
	for i, a := range p.Allocations {
		if len(a.Symbols) == 0 {
			p.Unallocated = p.Unallocated.Add(shares[i])
			continue
		}
		parts, err := shares[i].Split(len(a.Symbols))
		if err != nil {
			return Portfolio{}, err
		}
		for j, s := range a.Symbols {
			w := parts[j].Decimal().Mul(hundred).Div(capital.Decimal()).Round(2)
			p.Positions = append(p.Positions, Position{Symbol: s, Category: a.Category, Amount: parts[j], Weight: pct(w)})
		}
	}
	return p, nil
}

// Candidates returns the n best ranked symbols of every category, the lists
// a selection is drawn from.
func Candidates(c *lynch.Classifier, records []lynch.Record, filter lynch.Filter, n int) (map[lynch.Category][]string, error) {
	out := make(map[lynch.Category][]string)
	for _, cat := range lynch.Categories() {
		ranked, err := c.Rank(records, cat, filter, n)
		if err != nil {
			return nil, err
		}
		for _, r := range ranked {
			out[cat] = append(out[cat], r.Record.Symbol)
		}
	}
	return out, nil
}
