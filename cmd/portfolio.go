package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/config"
	"github.com/etnz/lynch/ingest"
	"github.com/etnz/lynch/portfolio"
	"github.com/etnz/lynch/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type portfolioCmd struct {
	strategy string
	capital  string
	picks    []string
	suggest  int
	industry string
	note     string
	clear    bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "assemble a portfolio under a market strategy" }
func (*portfolioCmd) Usage() string {
	return `lynch portfolio [-s <strategy>] [-capital <amount>] [-pick <category>=<a,b>]... [-suggest <n>] [-industry <name>] [-note <text>] [-clear]

  Compares the saved selection of symbols with the recommended category
  allocation of a market strategy (falling, sideways, booming) and splits
  the capital between the selected symbols.

  -pick replaces the symbols of a category, -suggest fills every category
  with its best ranked symbols. Any change is saved.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "s", "", "Strategy name, the saved one or 'sideways' by default")
	f.StringVar(&c.capital, "capital", "0", "Capital to invest, in LYNCH_CURRENCY")
	f.Func("pick", "Symbols of a category, as 'Fast Growers=AAA,BBB'. Repeatable.", func(s string) error {
		c.picks = append(c.picks, s)
		return nil
	})
	f.IntVar(&c.suggest, "suggest", 0, "Select the n best ranked symbols of each category")
	f.StringVar(&c.industry, "industry", "", "Only suggest symbols of this industry")
	f.StringVar(&c.note, "note", "", "Note saved with the selection")
	f.BoolVar(&c.clear, "clear", false, "Start from an empty selection")
}

func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	strategies := portfolio.DefaultStrategies()
	if cfg.Strategies != "" {
		if strategies, err = portfolio.LoadStrategies(cfg.Strategies); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	sel, err := portfolio.Load(cfg.Selection)
	if err != nil && !errors.Is(err, portfolio.ErrNoSelection) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.clear {
		sel = portfolio.Selection{}
	}
	if sel.Picks == nil {
		sel.Picks = make(map[lynch.Category][]string)
	}
	changed := c.clear

	name := c.strategy
	if name == "" {
		name = sel.Strategy
	}
	if name == "" {
		name = "sideways"
	}
	strategy, err := portfolio.Find(strategies, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	changed = changed || sel.Strategy != strategy.Name
	sel.Strategy = strategy.Name

	if c.suggest > 0 {
		if err := c.suggestPicks(cfg, &sel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		changed = true
	}
	for _, pick := range c.picks {
		cat, symbols, err := parsePick(pick)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if len(symbols) == 0 {
			delete(sel.Picks, cat)
		} else {
			sel.Picks[cat] = symbols
		}
		changed = true
	}
	if c.note != "" {
		sel.Note = c.note
		changed = true
	}

	if changed {
		sel.SavedAt = time.Now().UTC().Truncate(time.Second)
		if err := os.MkdirAll(filepath.Dir(cfg.Selection), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := portfolio.Save(cfg.Selection, sel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Info().Str("path", cfg.Selection).Int("symbols", sel.Count()).Msg("selection saved")
	}

	capital := portfolio.M(decimal.Zero, cfg.Currency)
	if c.capital != "" && c.capital != "0" {
		if capital, err = portfolio.ParseMoney(c.capital, cfg.Currency); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	p, err := portfolio.Assemble(strategy, sel, capital)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderPortfolio(renderer.NewPortfolio(p)))
	return subcommands.ExitSuccess
}

// suggestPicks replaces the picks with the best ranked symbols of each category.
func (c *portfolioCmd) suggestPicks(cfg *config.Config, sel *portfolio.Selection) error {
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	db, err := openStore(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.LatestAll(lynch.DefaultSource)
	if err != nil {
		return err
	}
	var filter lynch.Filter
	if c.industry != "" {
		filter.Industries = []string{c.industry}
	}
	candidates, err := portfolio.Candidates(classifier, records, filter, c.suggest)
	if err != nil {
		return err
	}

	// A symbol goes to the first category it is suggested for.
	seen := make(map[string]bool)
	sel.Picks = make(map[lynch.Category][]string)
	for _, cat := range lynch.Categories() {
		for _, s := range candidates[cat] {
			if !seen[s] {
				seen[s] = true
				sel.Picks[cat] = append(sel.Picks[cat], s)
			}
		}
	}
	sel.Industry = c.industry
	return nil
}

// parsePick reads "Fast Growers=AAA,BBB".
func parsePick(s string) (lynch.Category, []string, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return 0, nil, fmt.Errorf("invalid pick %q, want <category>=<symbols>", s)
	}
	cat, err := lynch.ParseCategory(name)
	if err != nil {
		return 0, nil, err
	}
	var symbols []string
	for _, sym := range strings.Split(list, ",") {
		if sym = ingest.Normalize(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return cat, symbols, nil
}
