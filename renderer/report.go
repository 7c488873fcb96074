package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/fmp"
	"github.com/etnz/lynch/ingest"
	md "github.com/nao1215/markdown"
)

// IngestMarkdown renders the report of an ingestion run.
func IngestMarkdown(r ingest.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ingestion %s\n\n", r.RunID)
	fmt.Fprintf(&b, "%d symbols, %d records stored, %d failed, in %v.\n",
		len(r.Outcomes), r.Stored(), len(r.Failed()), r.Finished.Sub(r.Started).Round(time.Millisecond))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\n## Failed\n\n")
		for _, o := range r.Failed() {
			fmt.Fprintf(w, "- %s: %v\n", o.Symbol, oneLine(o.Err))
		}
		return len(r.Failed()) > 0
	})
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\n## Rate limited\n\nRetry later: %s.\n", strings.Join(r.RateLimited(), ", "))
		return len(r.RateLimited()) > 0
	})
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\n## Incomplete\n\n| Symbol | Latest | Missing |\n|:---|:---|:---|\n")
		n := 0
		for _, o := range r.Outcomes {
			if o.Status == ingest.Failed || len(o.Missing) == 0 {
				continue
			}
			names := make([]string, len(o.Missing))
			for i, f := range o.Missing {
				names[i] = f.String()
			}
			fmt.Fprintf(w, "| %s | %v | %s |\n", o.Symbol, o.Latest, strings.Join(names, ", "))
			n++
		}
		return n > 0
	})
	return b.String()
}

func oneLine(err error) string { return strings.ReplaceAll(fmt.Sprint(err), "\n", "; ") }

// AuditMarkdown renders the completeness of local provider files.
func AuditMarkdown(audit []fmp.Completeness) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("File audit")

	complete := 0
	table := md.TableSet{Header: []string{"Symbol", "Empty or missing"}, Rows: [][]string{}}
	for _, c := range audit {
		if c.Complete() {
			complete++
			continue
		}
		kinds := make([]string, len(c.Empty))
		for i, k := range c.Empty {
			kinds[i] = string(k)
		}
		table.Rows = append(table.Rows, []string{c.Symbol, strings.Join(kinds, ", ")})
	}
	doc.PlainText(fmt.Sprintf("%d of %d symbols complete.", complete, len(audit)))
	if len(table.Rows) > 0 {
		doc.Table(table)
	}
	return doc.String()
}

// MissingMarkdown lists the required fields absent from records.
func MissingMarkdown(records []lynch.Record) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "| Symbol | Period | Missing |\n|:---|:---|:---|\n")
		n := 0
		for _, r := range records {
			if len(r.Missing) == 0 {
				continue
			}
			names := make([]string, len(r.Missing))
			for i, f := range r.Missing {
				names[i] = f.String()
			}
			fmt.Fprintf(w, "| %s | %v | %s |\n", r.Symbol, r.Period, strings.Join(names, ", "))
			n++
		}
		return n > 0
	})
	return b.String()
}
