package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/renderer"
	"github.com/etnz/lynch/store"
	"github.com/google/subcommands"
)

type topCmd struct {
	category   string
	n          int
	industries string
	minCap     float64
	maxCap     float64
	date       string
}

func (*topCmd) Name() string     { return "top" }
func (*topCmd) Synopsis() string { return "rank symbols for a category" }
func (*topCmd) Usage() string {
	return `lynch top -c <category> [-n <count>] [-industry <a,b>] [-min-cap <x>] [-max-cap <x>] [-d <date>]

  Ranks the stored symbols by how well they fit a category. By default the
  latest record of every symbol is used; -d latest uses only the records of
  the most recent quarter end, -d 2024-09-30 those of a given quarter end.
`
}

func (c *topCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", lynch.FastGrowers.String(), "Category to rank for")
	f.IntVar(&c.n, "n", 10, "Number of symbols to show, 0 for all")
	f.StringVar(&c.industries, "industry", "", "Comma separated industries (or sectors) to keep")
	f.Float64Var(&c.minCap, "min-cap", 0, "Minimum market capitalization")
	f.Float64Var(&c.maxCap, "max-cap", 0, "Maximum market capitalization")
	f.StringVar(&c.date, "d", "", "Date of the records: empty, 'latest' or a quarter end date")
}

func (c *topCmd) filter() lynch.Filter {
	filter := lynch.Filter{MinMarketCap: c.minCap, MaxMarketCap: c.maxCap}
	for _, ind := range strings.Split(c.industries, ",") {
		if ind = strings.TrimSpace(ind); ind != "" {
			filter.Industries = append(filter.Industries, ind)
		}
	}
	return filter
}

func (c *topCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := lynch.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := openStore(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	records, day, err := selectRecords(db, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	filter := c.filter()
	ranked, err := classifier.Rank(records, cat, filter, c.n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderRanking(renderer.NewRanking(cat, ranked, filter, day)))
	return subcommands.ExitSuccess
}

// selectRecords returns the canonical records dated on day. An empty day
// selects the latest record of every symbol, "latest" the most recent date.
func selectRecords(db *store.Store, day string) ([]lynch.Record, string, error) {
	switch day {
	case "":
		records, err := db.LatestAll(lynch.DefaultSource)
		return records, "", err
	case "latest":
		dates, err := db.Dates(lynch.DefaultSource)
		if err != nil {
			return nil, "", err
		}
		if len(dates) == 0 {
			return nil, "", nil
		}
		day = dates[0]
	}
	records, err := db.At(lynch.DefaultSource, day)
	return records, day, err
}
