package lynch

import "math"

// DefaultYoYLag is the number of quarters between a period and the same
// quarter a year earlier.
const DefaultYoYLag = 4

// DefaultSGAWindow is the number of recent periods examined for the SG&A trend.
const DefaultSGAWindow = 4

// growthRate returns (latest - prior) / |prior|.
func growthRate(latest, prior float64) (float64, bool) {
	if prior == 0 {
		return 0, false
	}
	g := (latest - prior) / math.Abs(prior)
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, false
	}
	return g, true
}

// YoYGrowth compares f in series[0] with series[lag], series being ordered
// from the most recent period. It assumes quarterly cadence: lag 4 is the
// same quarter one year earlier.
func YoYGrowth(series []Record, f Field, lag int) (float64, bool) {
	if lag <= 0 || len(series) < lag+1 {
		return 0, false
	}
	latest, ok := series[0].Number(f)
	if !ok {
		return 0, false
	}
	prior, ok := series[lag].Number(f)
	if !ok {
		return 0, false
	}
	return growthRate(latest, prior)
}

// QoQGrowth compares f in cur with prev. prev must be labelled as the quarter
// immediately preceding cur; any other record gives no growth.
func QoQGrowth(cur, prev Record, f Field) (float64, bool) {
	if prev.Period.IsZero() || prev.Period != cur.Period.Prev() {
		return 0, false
	}
	latest, ok := cur.Number(f)
	if !ok {
		return 0, false
	}
	prior, ok := prev.Number(f)
	if !ok {
		return 0, false
	}
	return growthRate(latest, prior)
}

// SGARatioTrend reports whether SG&A expenses are shrinking relative to revenue over
// the window most recent periods of series (most recent first). It is true when
// the ratio never increased across the usable periods, or when the latest
// ratio is below the mean of the earlier ones. ok is false with fewer than two
// usable ratios.
func SGARatioTrend(series []Record, window int) (trend bool, ok bool) {
	if window > len(series) {
		window = len(series)
	}
	ratios := make([]float64, 0, window)
	for _, r := range series[:max(window, 0)] {
		sga, ok1 := r.Number(SGA)
		rev, ok2 := r.Number(Revenue)
		if ok1 && ok2 && rev != 0 {
			ratios = append(ratios, sga/rev)
		}
	}
	if len(ratios) < 2 {
		return false, false
	}

	// ratios[0] is the latest; non-increasing over time means each ratio is at
	// most the one before it.
	monotonic := true
	for i := 0; i+1 < len(ratios); i++ {
		if ratios[i] > ratios[i+1] {
			monotonic = false
			break
		}
	}
	var sum float64
	for _, x := range ratios[1:] {
		sum += x
	}
	belowMean := ratios[0] < sum/float64(len(ratios)-1)
	return monotonic || belowMean, true
}

// GrowthOptions configures Growth.
type GrowthOptions struct {
	YoYLag    int // defaults to DefaultYoYLag
	SGAWindow int // defaults to DefaultSGAWindow
}

func (o GrowthOptions) withDefaults() GrowthOptions {
	if o.YoYLag <= 0 {
		o.YoYLag = DefaultYoYLag
	}
	if o.SGAWindow < 2 {
		o.SGAWindow = DefaultSGAWindow
	}
	return o
}

// growthSources maps a growth field to the base fields it is computed from, in
// order of preference.
var growthSources = []struct {
	yoy, qoq Field
	base     []Field
}{
	{RevenueGrowth, RevenueGrowthQoQ, []Field{Revenue}},
	{EarningsGrowth, EarningsGrowthQoQ, []Field{NetIncome, EPS}},
	{EPSGrowth, EPSGrowthQoQ, []Field{EPS}},
}

// Growth computes the growth fields for series[0] from series, ordered from
// the most recent period. Only growth fields are returned; callers merge them
// without overwriting values supplied directly by a provider.
func Growth(series []Record, opts GrowthOptions) map[Field]Value {
	opts = opts.withDefaults()
	out := make(map[Field]Value)
	if len(series) == 0 {
		return out
	}
	cur := series[0]
	prev, hasPrev := FindPeriod(series[1:], cur.Period.Prev())

	for _, g := range growthSources {
		for _, base := range g.base {
			if x, ok := YoYGrowth(series, base, opts.YoYLag); ok {
				if v, ok := NumberValue(x); ok {
					out[g.yoy] = v
				}
				break
			}
		}
		if !hasPrev {
			continue
		}
		for _, base := range g.base {
			if x, ok := QoQGrowth(cur, prev, base); ok {
				if v, ok := NumberValue(x); ok {
					out[g.qoq] = v
				}
				break
			}
		}
	}
	if trend, ok := SGARatioTrend(series, opts.SGAWindow); ok {
		out[SGATrend] = FlagValue(trend)
	}
	return out
}

// Grown reports whether Growth can produce f.
func Grown(f Field) bool {
	if f == SGATrend {
		return true
	}
	for _, g := range growthSources {
		if g.yoy == f || g.qoq == f {
			return true
		}
	}
	return false
}
