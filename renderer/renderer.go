package renderer

import (
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// funcs are the functions available to every template.
var funcs = template.FuncMap{
	"join": strings.Join,
}

// RenderSymbol renders the view of a symbol to markdown.
func RenderSymbol(s *Symbol) string {
	partials := map[string]string{
		"symbol_title":      "symbol_title.md",
		"symbol_verdict":    "symbol_verdict.md",
		"symbol_metrics":    "symbol_metrics.md",
		"symbol_categories": "symbol_categories.md",
	}
	return renderTemplate("symbol", "symbol.md", partials, s)
}

// RenderSymbolSummary renders the view of a symbol without the category
// details.
func RenderSymbolSummary(s *Symbol) string {
	partials := map[string]string{
		"symbol_title":      "symbol_title.md",
		"symbol_verdict":    "symbol_verdict.md",
		"symbol_metrics":    "symbol_metrics.md",
		"symbol_categories": "", // An empty file name results in an empty template.
	}
	return renderTemplate("symbol", "symbol.md", partials, s)
}

// RenderRanking renders a ranking to markdown.
func RenderRanking(r *Ranking) string {
	return renderTemplate("ranking", "ranking.md", nil, r)
}

// RenderPortfolio renders a portfolio to markdown.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_title":       "portfolio_title.md",
		"portfolio_allocations": "portfolio_allocations.md",
		"portfolio_positions":   "portfolio_positions.md",
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
