package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/lynch/fmp"
	"github.com/etnz/lynch/renderer"
	"github.com/google/subcommands"
)

type auditCmd struct {
	dir string
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "check the completeness of FMP files" }
func (*auditCmd) Usage() string {
	return `lynch audit [-dir <dir>]

  Lists the symbols of a directory of FMP files ({SYMBOL}_{Kind}.json) and
  the datasets that are missing or empty for each of them.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Directory of the FMP files. Defaults to LYNCH_FMP_DIR.")
}

func (c *auditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir := c.dir
	if dir == "" {
		cfg, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		dir = cfg.FMPDir
	}
	if dir == "" {
		fmt.Fprintln(os.Stderr, "Error: no directory, use -dir or LYNCH_FMP_DIR.")
		return subcommands.ExitUsageError
	}

	audit, err := fmp.Files{Dir: dir}.Audit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AuditMarkdown(audit))
	return subcommands.ExitSuccess
}
