package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/renderer"
	"github.com/google/subcommands"
)

type fieldsCmd struct {
	missing bool
}

func (*fieldsCmd) Name() string     { return "fields" }
func (*fieldsCmd) Synopsis() string { return "list the canonical fields" }
func (*fieldsCmd) Usage() string {
	return `lynch fields [-missing]

  Lists the canonical fields and their meaning. With -missing, lists for
  the latest record of every stored symbol the fields the classification
  needs but no provider supplied.
`
}

func (c *fieldsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.missing, "missing", false, "Report the missing fields of the stored symbols")
}

func (c *fieldsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.missing {
		printMarkdown(renderer.FieldsMarkdown(lynch.Fields()))
		return subcommands.ExitSuccess
	}

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

	records, err := db.LatestAll(lynch.DefaultSource)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.MissingMarkdown(records))
	return subcommands.ExitSuccess
}
