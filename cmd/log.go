package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/lynch/config"
	"github.com/rs/zerolog"
)

// newLogger writes human readable logs to stderr, stdout is for reports.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.Level()
	if *verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// printMarkdown prints md formatted for the terminal.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
