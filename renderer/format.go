package renderer

import (
	"fmt"
	"math"

	"github.com/etnz/lynch"
)

// percentFields are fractions displayed as percentages.
var percentFields = map[lynch.Field]bool{
	lynch.DividendYield: true,
	lynch.PayoutRatio:   true,
	lynch.ProfitMargin:  true,
	lynch.FCFMargin:     true,
	lynch.DebtToAssets:  true,
	lynch.EquityRatio:   true,
}

// amountFields are large amounts displayed with a K, M, B or T suffix.
var amountFields = map[lynch.Field]bool{
	lynch.MarketCap:               true,
	lynch.Revenue:                 true,
	lynch.NetIncome:               true,
	lynch.SGA:                     true,
	lynch.TotalAssets:             true,
	lynch.TotalCurrentAssets:      true,
	lynch.TotalCurrentLiabilities: true,
	lynch.Inventory:               true,
	lynch.TotalCash:               true,
	lynch.TotalStockholderEquity:  true,
	lynch.LongTermDebt:            true,
	lynch.ShortTermDebt:           true,
	lynch.ShortLongTermDebtTotal:  true,
	lynch.TotalDebt:               true,
	lynch.SharesOutstanding:       true,
	lynch.OperatingCashflow:       true,
	lynch.CapitalExpenditures:     true,
	lynch.FreeCashFlow:            true,
}

// FormatValue formats v for display as a value of f.
func FormatValue(f lynch.Field, v lynch.Value) string {
	switch v.Kind() {
	case lynch.Flag:
		if b, _ := v.Bool(); b {
			return "yes"
		}
		return "no"
	case lynch.Text:
		return v.String()
	}
	x, _ := v.Float()
	switch {
	case percentFields[f] || f.Group() == lynch.GroupGrowth:
		return fmt.Sprintf("%.1f%%", x*100)
	case amountFields[f]:
		return humanize(x)
	}
	return fmt.Sprintf("%.2f", x)
}

// Format formats the value of f in r, "n/a" when absent.
func Format(r lynch.Record, f lynch.Field) string {
	v, ok := r.Get(f)
	if !ok {
		return "n/a"
	}
	return FormatValue(f, v)
}

func humanize(x float64) string {
	abs := math.Abs(x)
	for _, u := range []struct {
		div    float64
		suffix string
	}{{1e12, "T"}, {1e9, "B"}, {1e6, "M"}, {1e3, "K"}} {
		if abs >= u.div {
			return fmt.Sprintf("%.2f%s", x/u.div, u.suffix)
		}
	}
	return fmt.Sprintf("%.0f", x)
}
