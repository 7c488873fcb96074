package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/lynch"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the values of f over series, most recent first.
func HistoryMarkdown(symbol string, f lynch.Field, series []lynch.Record) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s history for %s", f, symbol))
	doc.PlainText(f.Description())

	table := md.TableSet{
		Header: []string{"Period", "Date", "Value"},
		Rows:   [][]string{},
	}
	for i := len(series) - 1; i >= 0; i-- {
		r := series[i]
		table.Rows = append(table.Rows, []string{r.Period.String(), r.Date().String(), Format(r, f)})
	}
	doc.Table(table)
	return doc.String()
}

// FieldsMarkdown renders the catalogue of canonical fields, by group.
func FieldsMarkdown(fields []lynch.Field) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Fields")

	var groups []lynch.Group
	byGroup := make(map[lynch.Group][]lynch.Field)
	for _, f := range fields {
		if _, ok := byGroup[f.Group()]; !ok {
			groups = append(groups, f.Group())
		}
		byGroup[f.Group()] = append(byGroup[f.Group()], f)
	}
	for _, g := range groups {
		doc.H2(string(g))
		table := md.TableSet{Header: []string{"Field", "Kind", "Description"}, Rows: [][]string{}}
		for _, f := range byGroup[g] {
			table.Rows = append(table.Rows, []string{md.Bold(f.String()), f.Kind().String(), f.Description()})
		}
		doc.Table(table)
	}
	return doc.String()
}
