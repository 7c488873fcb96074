package portfolio

import "github.com/shopspring/decimal"

// Percent is a share in percent, 12.5 meaning 12.5%.
type Percent struct{ decimal.Decimal }

func pct(d decimal.Decimal) Percent { return Percent{d} }

func (p Percent) String() string { return p.StringFixed(1) + "%" }

// SignedString shows the sign, "-" for zero.
func (p Percent) SignedString() string {
	if p.Round(1).IsZero() {
		return "-"
	}
	if p.IsPositive() {
		return "+" + p.String()
	}
	return p.String()
}
