package lynch

import (
	"math"
	"testing"

	"github.com/etnz/lynch/date"
)

// quarterly returns one record per quarter, most recent first, starting at
// latest and going back in time, with f set to the given values.
func quarterly(latest string, f Field, xs ...float64) []Record {
	q := date.MustParseQuarter(latest)
	series := make([]Record, len(xs))
	for i, x := range xs {
		series[i] = Record{Symbol: "XYZ", Period: q.Add(-i), Source: DefaultSource, Values: values(map[Field]float64{f: x})}
	}
	return series
}

func TestYoYGrowth(t *testing.T) {
	series := quarterly("2024-Q3", Revenue, 110, 105, 100, 98, 100)
	got, ok := YoYGrowth(series, Revenue, 4)
	if !ok || math.Abs(got-0.10) > 1e-12 {
		t.Errorf("YoYGrowth() = %v, %v, want 0.10", got, ok)
	}
}

func TestYoYGrowth_Absent(t *testing.T) {
	tests := []struct {
		name   string
		series []Record
	}{
		{"too short", quarterly("2024-Q3", Revenue, 110, 105, 100, 98)},
		{"zero prior", quarterly("2024-Q3", Revenue, 110, 105, 100, 98, 0)},
		{"empty", nil},
	}
	for _, test := range tests {
		if got, ok := YoYGrowth(test.series, Revenue, 4); ok {
			t.Errorf("YoYGrowth(%s) = %v, want absent", test.name, got)
		}
	}
	series := quarterly("2024-Q3", Revenue, 110, 105, 100, 98, 100)
	series[4].Values = nil
	if got, ok := YoYGrowth(series, Revenue, 4); ok {
		t.Errorf("YoYGrowth(missing prior) = %v, want absent", got)
	}
}

func TestYoYGrowth_NegativePrior(t *testing.T) {
	series := quarterly("2024-Q3", NetIncome, -50, 0, 0, 0, -100)
	got, ok := YoYGrowth(series, NetIncome, 4)
	if !ok || got != 0.5 {
		t.Errorf("YoYGrowth() = %v, %v, want 0.5 (loss halved)", got, ok)
	}
}

func TestQoQGrowth(t *testing.T) {
	series := quarterly("2024-Q3", Revenue, 110, 100)
	got, ok := QoQGrowth(series[0], series[1], Revenue)
	if !ok || math.Abs(got-0.10) > 1e-12 {
		t.Errorf("QoQGrowth() = %v, %v, want 0.10", got, ok)
	}

	// the previous record is two quarters back: no growth
	gap := series[1]
	gap.Period = gap.Period.Prev()
	if got, ok := QoQGrowth(series[0], gap, Revenue); ok {
		t.Errorf("QoQGrowth(gap) = %v, want absent", got)
	}
}

func TestSGARatioTrend(t *testing.T) {
	mk := func(ratios ...float64) []Record {
		series := quarterly("2024-Q3", Revenue, make([]float64, len(ratios))...)
		for i, r := range ratios {
			series[i].Values = values(map[Field]float64{Revenue: 100, SGA: r * 100})
		}
		return series
	}
	tests := []struct {
		name   string
		series []Record
		trend  bool
		ok     bool
	}{
		{"declining", mk(0.20, 0.22, 0.25, 0.30), true, true},
		{"flat", mk(0.20, 0.20), true, true},
		{"latest below mean", mk(0.21, 0.25, 0.20, 0.22), true, true},
		{"rising", mk(0.30, 0.25, 0.22, 0.20), false, true},
		{"single period", mk(0.20), false, false},
	}
	for _, test := range tests {
		trend, ok := SGARatioTrend(test.series, 4)
		if trend != test.trend || ok != test.ok {
			t.Errorf("SGARatioTrend(%s) = %v, %v, want %v, %v", test.name, trend, ok, test.trend, test.ok)
		}
	}
}

func TestGrowth(t *testing.T) {
	series := quarterly("2024-Q3", Revenue, 110, 100, 100, 98, 100)
	// earnings only known through eps
	for i, eps := range []float64{1.2, 1.1, 1, 1, 1} {
		series[i].Values[EPS], _ = NumberValue(eps)
	}
	got := Growth(series, GrowthOptions{})

	check := func(f Field, want float64) {
		t.Helper()
		x, ok := num(got, f)
		if !ok || math.Abs(x-want) > 1e-9 {
			t.Errorf("Growth()[%s] = %v, %v, want %v", f, x, ok, want)
		}
	}
	check(RevenueGrowth, 0.10)
	check(RevenueGrowthQoQ, 0.10)
	check(EarningsGrowth, 0.2)
	check(EPSGrowth, 0.2)
	check(EPSGrowthQoQ, 0.1/1.1)
	if _, ok := got[SGATrend]; ok {
		t.Errorf("Growth()[sgaTrend] present without SG&A figures")
	}
	if !Grown(SGATrend) || !Grown(EarningsGrowthQoQ) || Grown(PERatio) {
		t.Errorf("Grown() does not match the growth fields")
	}
}
