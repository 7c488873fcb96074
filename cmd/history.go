package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/ingest"
	"github.com/etnz/lynch/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	field string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display a metric over time" }
func (*historyCmd) Usage() string {
	return `lynch history -f <field> <symbol>

  Displays the value of a single canonical field over every stored quarter
  of a symbol, most recent first. See 'lynch fields' for the field names.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.field, "f", lynch.RevenueGrowth.String(), "canonical field to report on")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	field, err := lynch.ParseField(c.field)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	symbol := ingest.Normalize(f.Arg(0))

	cfg, log, err := loadConfig()
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

	series, err := db.Series(symbol, lynch.DefaultSource)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(series) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no record for %s\n", symbol)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HistoryMarkdown(symbol, field, series))
	return subcommands.ExitSuccess
}
