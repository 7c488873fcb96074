package lynch

import "math"

// derivation computes one field from others. compute is only called when the
// target is absent; it reports false when an operand is missing or a
// denominator is zero.
type derivation struct {
	target   Field
	operands []Field
	compute  func(m map[Field]Value) (float64, bool)
}

// derivations are applied in order; later ones may use the output of earlier ones.
var derivations = []derivation{
	{TotalDebt, []Field{LongTermDebt, ShortTermDebt, ShortLongTermDebtTotal}, totalDebt},
	{FreeCashFlow, []Field{OperatingCashflow, CapitalExpenditures}, func(m map[Field]Value) (float64, bool) {
		ocf, ok1 := num(m, OperatingCashflow)
		capex, ok2 := num(m, CapitalExpenditures)
		return ocf - math.Abs(capex), ok1 && ok2
	}},
	ratio(ProfitMargin, NetIncome, Revenue),
	ratio(CurrentRatio, TotalCurrentAssets, TotalCurrentLiabilities),
	{QuickRatio, []Field{TotalCurrentAssets, Inventory, TotalCurrentLiabilities}, func(m map[Field]Value) (float64, bool) {
		assets, ok1 := num(m, TotalCurrentAssets)
		inventory, ok2 := num(m, Inventory)
		liabilities, ok3 := num(m, TotalCurrentLiabilities)
		if !ok1 || !ok2 || !ok3 || liabilities == 0 {
			return 0, false
		}
		return (assets - inventory) / liabilities, true
	}},
	ratio(DebtToEquity, TotalDebt, TotalStockholderEquity),
	ratio(DebtToAssets, TotalDebt, TotalAssets),
	ratio(CashToDebt, TotalCash, TotalDebt),
	ratio(EquityRatio, TotalStockholderEquity, TotalAssets),
	ratio(BookValuePerShare, TotalStockholderEquity, SharesOutstanding),
	ratio(CashPerShare, TotalCash, SharesOutstanding),
	ratio(FreeCashFlowPerShare, FreeCashFlow, SharesOutstanding),
	ratio(FCFMargin, FreeCashFlow, Revenue),
	ratio(PriceToBook, MarketCap, TotalStockholderEquity),
	ratio(EPS, NetIncome, SharesOutstanding),
	{PEGRatio, []Field{PERatio, EarningsGrowth}, func(m map[Field]Value) (float64, bool) {
		pe, ok1 := num(m, PERatio)
		growth, ok2 := num(m, EarningsGrowth)
		if !ok1 || !ok2 || growth == 0 {
			return 0, false
		}
		// growth is a decimal fraction, PEG uses percentage points.
		return pe / (growth * 100), true
	}},
}

// ratio returns the derivation target = numerator / denominator.
func ratio(target, numerator, denominator Field) derivation {
	return derivation{target, []Field{numerator, denominator}, func(m map[Field]Value) (float64, bool) {
		n, ok1 := num(m, numerator)
		d, ok2 := num(m, denominator)
		if !ok1 || !ok2 || d == 0 {
			return 0, false
		}
		return n / d, true
	}}
}

// totalDebt sums long and short term debt. A missing side counts as zero only
// when the other side is present; with neither, the combined reported figure
// is used.
func totalDebt(m map[Field]Value) (float64, bool) {
	long, okLong := num(m, LongTermDebt)
	short, okShort := num(m, ShortTermDebt)
	if okLong || okShort {
		return long + short, true
	}
	return num(m, ShortLongTermDebtTotal)
}

// num reads a numeric field from m.
func num(m map[Field]Value, f Field) (float64, bool) {
	v, ok := m[f]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// DeriveAll returns a copy of values where absent fields that can be computed
// from present ones are filled. Present fields are never overwritten and a
// derived field is absent whenever one of its operands is.
func DeriveAll(values map[Field]Value) map[Field]Value {
	out := make(map[Field]Value, len(values)+len(derivations))
	for f, v := range values {
		out[f] = v
	}
	for _, d := range derivations {
		if _, present := out[d.target]; present {
			continue
		}
		x, ok := d.compute(out)
		if !ok {
			continue
		}
		if v, ok := NumberValue(x); ok {
			out[d.target] = v
		}
	}
	return out
}

// Derivable reports whether DeriveAll has a formula for f.
func Derivable(f Field) bool {
	for _, d := range derivations {
		if d.target == f {
			return true
		}
	}
	return false
}

// DerivedFrom returns the operands of the formula computing f, or nil.
func DerivedFrom(f Field) []Field {
	for _, d := range derivations {
		if d.target == f {
			return d.operands
		}
	}
	return nil
}
