package renderer

import (
	"strings"

	"github.com/etnz/lynch/portfolio"
)

// Portfolio is the view of an assembled portfolio.
type Portfolio struct {
	Strategy    string
	Label       string
	Note        string
	Capital     string
	Unallocated string
	Allocations []Allocation
	Positions   []Position
}

type Allocation struct {
	Category    string
	Recommended string
	Actual      string
	Difference  string
	Symbols     string
}

type Position struct {
	Symbol   string
	Category string
	Amount   string
	Weight   string
}

// NewPortfolio builds the view of p.
func NewPortfolio(p portfolio.Portfolio) *Portfolio {
	v := &Portfolio{
		Strategy: p.Strategy.Name,
		Label:    p.Strategy.Label,
		Note:     p.Selection.Note,
	}
	for _, a := range p.Allocations {
		v.Allocations = append(v.Allocations, Allocation{
			Category:    a.Category.String(),
			Recommended: a.Recommended.String(),
			Actual:      a.Actual.String(),
			Difference:  a.Difference.SignedString(),
			Symbols:     strings.Join(a.Symbols, ", "),
		})
	}
	if len(p.Positions) == 0 {
		return v
	}
	v.Capital = p.Capital.String()
	v.Unallocated = p.Unallocated.String()
	for _, pos := range p.Positions {
		v.Positions = append(v.Positions, Position{
			Symbol:   pos.Symbol,
			Category: pos.Category.String(),
			Amount:   pos.Amount.String(),
			Weight:   pos.Weight.String(),
		})
	}
	return v
}
