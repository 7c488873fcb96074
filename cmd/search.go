package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// searchCmd implements the "search" command.
type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "searches for symbols on EODHD" }
func (*searchCmd) Usage() string {
	return `lynch search <search term>

  Searches for common stocks via EOD Historical Data API and prints
  ready-to-use 'lynch ingest' commands for the results.

  Requires the EODHD_API_KEY environment variable to be set.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	searchTerm := strings.Join(f.Args(), " ")

	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.EODHDKey == "" {
		fmt.Fprintln(os.Stderr, "Error: EODHD API key is not set. Use the EODHD_API_KEY environment variable.")
		return subcommands.ExitFailure
	}

	results, err := newEODHD(cfg, log).Search(ctx, searchTerm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching symbols: %v\n", err)
		return subcommands.ExitFailure
	}

	if len(results) == 0 {
		fmt.Printf("No results found for '%s'.\n", searchTerm)
		return subcommands.ExitSuccess
	}

	fmt.Printf("Found %d results for '%s':\n\n", len(results), searchTerm)

	for _, item := range results {
		fmt.Printf("➡️   Name       : %s (%s)\n", item.Name, item.Code)
		fmt.Printf("    Country     : %s, Currency: %s, ISIN: %s\n", item.Country, item.Currency, item.ISIN)
		fmt.Printf("    Prev. Close : %.2f on %s\n", item.PreviousClose, item.PreviousCloseDate)
		fmt.Printf("    $ lynch ingest %s\n\n", item.Ticker())
	}

	return subcommands.ExitSuccess
}
