package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/date"
	"github.com/etnz/lynch/ingest"
	"github.com/etnz/lynch/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	quarter string
	short   bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "classify a symbol" }
func (*showCmd) Usage() string {
	return `lynch show [-q <quarter>] [-short] <symbol>

  Shows the key metrics of the latest record of a symbol, the category it
  fits best and how every rule of every category scores.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.quarter, "q", "", "Quarter to show (2024-Q3), the latest by default")
	f.BoolVar(&c.short, "short", false, "Hide the category details")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	symbol := ingest.Normalize(f.Arg(0))

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

	rec, err := c.record(db, symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	view := renderer.NewSymbol(rec, classifier)
	if c.short {
		printMarkdown(renderer.RenderSymbolSummary(view))
	} else {
		printMarkdown(renderer.RenderSymbol(view))
	}
	return subcommands.ExitSuccess
}

func (c *showCmd) record(db lynch.SeriesSource, symbol string) (lynch.Record, error) {
	series, err := db.Series(symbol, lynch.DefaultSource)
	if err != nil {
		return lynch.Record{}, err
	}
	if len(series) == 0 {
		return lynch.Record{}, fmt.Errorf("no record for %s, run 'lynch ingest %s' first", symbol, symbol)
	}
	if c.quarter == "" {
		return series[len(series)-1], nil
	}
	q, err := date.ParseQuarter(c.quarter)
	if err != nil {
		return lynch.Record{}, err
	}
	rec, ok := lynch.FindPeriod(series, q)
	if !ok {
		return lynch.Record{}, fmt.Errorf("no record for %s in %s", symbol, q)
	}
	return rec, nil
}
