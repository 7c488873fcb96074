package lynch

import (
	"math"
	"testing"
)

func TestDeriveAll_AbsencePropagation(t *testing.T) {
	// every formula loses its result when any operand is missing
	for _, d := range derivations {
		if d.target == TotalDebt {
			continue // has fallbacks, see TestDeriveAll_TotalDebt
		}
		for i := range d.operands {
			in := make(map[Field]float64)
			for j, op := range d.operands {
				if j != i {
					in[op] = 10
				}
			}
			out := DeriveAll(values(in))
			if v, ok := out[d.target]; ok {
				t.Errorf("DeriveAll() without %s gave %s = %v, want absent", d.operands[i], d.target, v)
			}
		}
	}
}

func TestDeriveAll(t *testing.T) {
	out := DeriveAll(values(map[Field]float64{
		TotalAssets:             1000,
		TotalDebt:               400,
		TotalCash:               100,
		TotalStockholderEquity:  500,
		SharesOutstanding:       100,
		TotalCurrentAssets:      300,
		TotalCurrentLiabilities: 200,
		Inventory:               100,
		OperatingCashflow:       90,
		CapitalExpenditures:     -30,
		Revenue:                 600,
		NetIncome:               60,
		MarketCap:               250,
	}))
	tests := []struct {
		f    Field
		want float64
	}{
		{DebtToAssets, 0.4},
		{DebtToEquity, 0.8},
		{CashToDebt, 0.25},
		{EquityRatio, 0.5},
		{BookValuePerShare, 5},
		{CashPerShare, 1},
		{CurrentRatio, 1.5},
		{QuickRatio, 1},
		{FreeCashFlow, 60},
		{FreeCashFlowPerShare, 0.6},
		{FCFMargin, 0.1},
		{ProfitMargin, 0.1},
		{PriceToBook, 0.5},
		{EPS, 0.6},
	}
	for _, test := range tests {
		got, ok := num(out, test.f)
		if !ok || math.Abs(got-test.want) > 1e-12 {
			t.Errorf("DeriveAll()[%s] = %v, %v, want %v", test.f, got, ok, test.want)
		}
	}
	if _, ok := out[PEGRatio]; ok {
		t.Errorf("DeriveAll()[pegRatio] present without earnings growth")
	}
}

func TestDeriveAll_TotalDebt(t *testing.T) {
	tests := []struct {
		name string
		in   map[Field]float64
		want float64
		ok   bool
	}{
		{"both sides", map[Field]float64{LongTermDebt: 300, ShortTermDebt: 50}, 350, true},
		{"long only", map[Field]float64{LongTermDebt: 300}, 300, true},
		{"short only", map[Field]float64{ShortTermDebt: 50}, 50, true},
		{"components win over combined", map[Field]float64{LongTermDebt: 300, ShortLongTermDebtTotal: 999}, 300, true},
		{"combined fallback", map[Field]float64{ShortLongTermDebtTotal: 420}, 420, true},
		{"nothing", map[Field]float64{TotalAssets: 1}, 0, false},
		{"reported total kept", map[Field]float64{TotalDebt: 10, LongTermDebt: 300}, 10, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := num(DeriveAll(values(test.in)), TotalDebt)
			if ok != test.ok || got != test.want {
				t.Errorf("DeriveAll()[totalDebt] = %v, %v, want %v, %v", got, ok, test.want, test.ok)
			}
		})
	}
}

func TestDeriveAll_NeverOverwrites(t *testing.T) {
	in := values(map[Field]float64{TotalDebt: 400, TotalAssets: 1000, DebtToAssets: 0.3})
	out := DeriveAll(in)
	if got, _ := num(out, DebtToAssets); got != 0.3 {
		t.Errorf("DeriveAll()[debtToAssets] = %v, want provider value 0.3", got)
	}
	if len(in) != 3 {
		t.Errorf("DeriveAll() modified its input: %v", in)
	}
}

func TestDeriveAll_ZeroDenominator(t *testing.T) {
	out := DeriveAll(values(map[Field]float64{TotalDebt: 0, TotalCash: 10, TotalAssets: 0}))
	for _, f := range []Field{CashToDebt, DebtToAssets} {
		if v, ok := out[f]; ok {
			t.Errorf("DeriveAll()[%s] = %v, want absent", f, v)
		}
	}
}

func TestDeriveAll_PEG(t *testing.T) {
	out := DeriveAll(values(map[Field]float64{PERatio: 20, EarningsGrowth: 0.25}))
	if got, ok := num(out, PEGRatio); !ok || math.Abs(got-0.8) > 1e-12 {
		t.Errorf("DeriveAll()[pegRatio] = %v, %v, want 0.8", got, ok)
	}
}
