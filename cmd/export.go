package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	stdhtml "html"
	"io"
	"os"
	"strings"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/ingest"
	"github.com/etnz/lynch/renderer"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type exportCmd struct {
	output string
	top    string
	n      int
	title  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export reports as an HTML page" }
func (*exportCmd) Usage() string {
	return `lynch export [-o <file.html>] [-top <category>] [-n <count>] [<symbol>...]

  Renders the classification of each symbol, and optionally the ranking of
  a category, into a single HTML page.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout by default")
	f.StringVar(&c.top, "top", "", "Add the ranking of this category")
	f.IntVar(&c.n, "n", 10, "Number of symbols in the ranking")
	f.StringVar(&c.title, "title", "Lynch report", "Title of the page")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 && c.top == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to export, give symbols or -top.")
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

	var doc strings.Builder
	if c.top != "" {
		cat, err := lynch.ParseCategory(c.top)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		records, err := db.LatestAll(lynch.DefaultSource)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		ranked, err := classifier.Rank(records, cat, lynch.Filter{}, c.n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		doc.WriteString(renderer.RenderRanking(renderer.NewRanking(cat, ranked, lynch.Filter{}, "")))
		doc.WriteString("\n")
	}
	for _, arg := range f.Args() {
		rec, err := latest(db, ingest.Normalize(arg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		doc.WriteString(renderer.RenderSymbol(renderer.NewSymbol(rec, classifier)))
		doc.WriteString("\n")
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := writeHTML(w, c.title, doc.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.output != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", c.output)
	}
	return subcommands.ExitSuccess
}

// writeHTML converts the markdown document into a standalone HTML page.
func writeHTML(w io.Writer, title, markdown string) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return fmt.Errorf("cannot convert markdown: %w", err)
	}
	_, err := fmt.Fprintf(w, htmlPage, stdhtml.EscapeString(title), body.String())
	return err
}

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.2em 0.6em; }
</style>
</head>
<body>
%s</body>
</html>
`
