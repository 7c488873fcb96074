package portfolio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/lynch"
)

// pickLine is one line of a saved selection: one picked symbol.
type pickLine struct {
	Strategy string         `json:"strategy"`
	Category lynch.Category `json:"category"`
	Symbol   string         `json:"symbol"`
	Industry string         `json:"industry,omitempty"`
	Note     string         `json:"note,omitempty"`
	SavedAt  time.Time      `json:"savedAt"`
}

// EncodeSelection writes sel in JSONL format, one line per picked symbol in
// category order.
func EncodeSelection(w io.Writer, sel Selection) error {
	enc := json.NewEncoder(w)
	for _, cat := range lynch.Categories() {
		for _, s := range sel.Picks[cat] {
			line := pickLine{Strategy: sel.Strategy, Category: cat, Symbol: s, Industry: sel.Industry, Note: sel.Note, SavedAt: sel.SavedAt.UTC()}
			if err := enc.Encode(line); err != nil {
				return fmt.Errorf("failed to write selection: %w", err)
			}
		}
	}
	return nil
}

// DecodeSelection reads a selection written by EncodeSelection.
func DecodeSelection(r io.Reader) (Selection, error) {
	sel := Selection{Picks: make(map[lynch.Category][]string)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var line pickLine
		if err := json.Unmarshal(b, &line); err != nil {
			return Selection{}, fmt.Errorf("invalid selection line %q: %w", string(b), err)
		}
		sel.Strategy, sel.Industry, sel.Note, sel.SavedAt = line.Strategy, line.Industry, line.Note, line.SavedAt
		sel.Picks[line.Category] = append(sel.Picks[line.Category], line.Symbol)
	}
	if err := scanner.Err(); err != nil {
		return Selection{}, fmt.Errorf("error reading selection: %w", err)
	}
	return sel, nil
}

// Save replaces the selection saved in path.
func Save(path string, sel Selection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot save selection: %w", err)
	}
	if err := EncodeSelection(f, sel); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ErrNoSelection is returned by Load when nothing was saved yet.
var ErrNoSelection = errors.New("no saved selection")

// Load reads the selection saved in path.
func Load(path string) (Selection, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Selection{}, ErrNoSelection
	}
	if err != nil {
		return Selection{}, fmt.Errorf("cannot load selection: %w", err)
	}
	defer f.Close()
	return DecodeSelection(f)
}
