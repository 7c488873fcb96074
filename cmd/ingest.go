package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/lynch/fmp"
	"github.com/etnz/lynch/ingest"
	"github.com/etnz/lynch/renderer"
	"github.com/google/subcommands"
)

type ingestCmd struct {
	file   string
	all    bool
	strict bool
	batch  int
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "fetch, reconcile and store fundamentals" }
func (*ingestCmd) Usage() string {
	return `lynch ingest [-f <symbols.json>] [-all] [-strict] [-batch <n>] [<symbol>...]

  Fetches the quarterly fundamentals of each symbol from the configured
  providers, reconciles them into canonical records and stores them.
  Ingesting a symbol again replaces its records.

  Symbols are read from the arguments, from a JSON list file (-f), or from
  the FMP directory (-all, requires LYNCH_FMP_DIR).
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "JSON file holding a list of symbols")
	f.BoolVar(&c.all, "all", false, "Ingest every symbol of the FMP directory")
	f.BoolVar(&c.strict, "strict", false, "Stop on the first symbol that fails. Overrides LYNCH_STRICT.")
	f.IntVar(&c.batch, "batch", 0, "Number of records written per transaction. Overrides LYNCH_BATCH_SIZE.")
}

func (c *ingestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	symbols := f.Args()
	if c.file != "" {
		listed, err := ingest.ReadSymbols(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		symbols = append(symbols, listed...)
	}
	if c.all {
		if cfg.FMPDir == "" {
			fmt.Fprintln(os.Stderr, "Error: -all requires LYNCH_FMP_DIR")
			return subcommands.ExitUsageError
		}
		listed, err := fmp.Files{Dir: cfg.FMPDir}.Symbols()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		symbols = append(symbols, listed...)
	}
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no symbol to ingest.")
		return subcommands.ExitUsageError
	}

	providers, err := newProviders(cfg, log)
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

	batchSize := cfg.BatchSize
	if c.batch > 0 {
		batchSize = c.batch
	}
	batch, err := ingest.New(ingest.Config{
		Providers:  providers,
		Store:      db,
		Reconciler: cfg.Reconciler(log),
		BatchSize:  batchSize,
		Strict:     cfg.Strict || c.strict,
		Logger:     log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	report, err := batch.Run(ctx, symbols)
	printMarkdown(renderer.IngestMarkdown(report))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(report.Failed()) == len(report.Outcomes) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
