package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/lynch"
)

// Ranking is the view of the best symbols of a category.
type Ranking struct {
	Category    string
	Description string
	Date        string // records date, "" when mixing the latest record of each symbol
	Filter      string
	Rows        []RankingRow
}

type RankingRow struct {
	Rank      int
	Symbol    string
	Industry  string
	MarketCap string
	Score     int
	MaxScore  int
	Percent   float64
}

// NewRanking builds the view of a ranking.
func NewRanking(cat lynch.Category, ranked []lynch.Ranked, filter lynch.Filter, date string) *Ranking {
	r := &Ranking{Category: cat.String(), Description: cat.Description(), Date: date, Filter: describe(filter)}
	for i, x := range ranked {
		industry := Format(x.Record, lynch.Industry)
		if industry == "n/a" {
			industry = Format(x.Record, lynch.Sector)
		}
		r.Rows = append(r.Rows, RankingRow{
			Rank:      i + 1,
			Symbol:    x.Record.Symbol,
			Industry:  industry,
			MarketCap: Format(x.Record, lynch.MarketCap),
			Score:     x.Result.Score,
			MaxScore:  x.Result.MaxScore,
			Percent:   x.Result.Percent(),
		})
	}
	return r
}

func describe(f lynch.Filter) string {
	var parts []string
	if len(f.Industries) > 0 {
		parts = append(parts, "industry "+strings.Join(f.Industries, ", "))
	}
	if f.MinMarketCap > 0 {
		parts = append(parts, fmt.Sprintf("market cap from %s", humanize(f.MinMarketCap)))
	}
	if f.MaxMarketCap > 0 {
		parts = append(parts, fmt.Sprintf("market cap up to %s", humanize(f.MaxMarketCap)))
	}
	return strings.Join(parts, ", ")
}
