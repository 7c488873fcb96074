package fmp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/httpcache"
)

// Files read downloaded datasets laid out as {SYMBOL}_{Kind}.json in a single
// directory. A Files value is a lynch.Provider.
type Files struct {
	Dir string
}

// Name implements lynch.Provider.
func (Files) Name() string { return Name }

func (f Files) path(symbol string, kind Kind) string {
	return filepath.Join(f.Dir, fmt.Sprintf("%s_%s.json", symbol, kind))
}

// readFile reads a dataset file. Files holding one JSON document per line are
// accepted too. Missing or empty files return nil.
func readFile(path string) (any, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		return nil, nil
	}
	var data any
	if err := httpcache.Decode(content, &data); err == nil {
		return data, nil
	}

	var list []any
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var row any
		if err := httpcache.Decode(line, &row); err != nil {
			continue
		}
		list = append(list, row)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: not a JSON document", path)
	}
	return list, nil
}

// Load reads every dataset of symbol.
func (f Files) Load(symbol string) (map[Kind]any, error) {
	docs := make(map[Kind]any, len(Kinds))
	for _, kind := range Kinds {
		data, err := readFile(f.path(symbol, kind))
		if err != nil {
			return nil, err
		}
		if data != nil {
			docs[kind] = data
		}
	}
	return docs, nil
}

// Fetch implements lynch.Provider, it reads the files of symbol.
func (f Files) Fetch(_ context.Context, symbol string) ([]lynch.RawRecord, error) {
	docs, err := f.Load(symbol)
	if err != nil {
		return nil, err
	}
	raws := Merge(symbol, docs)
	if len(raws) == 0 {
		return nil, fmt.Errorf("%s in %s: %w", symbol, f.Dir, lynch.ErrNotFound)
	}
	return raws, nil
}

// Symbols lists the symbols having at least one file in the directory, sorted.
func (f Files) Symbols() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(f.Dir, "*_*.json"))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var symbols []string
	for _, m := range matches {
		symbol, _, _ := strings.Cut(filepath.Base(m), "_")
		if symbol != "" && !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// Completeness tells which datasets of a symbol are missing or empty.
type Completeness struct {
	Symbol string
	Empty  []Kind
}

// Complete reports whether every dataset is present.
func (c Completeness) Complete() bool { return len(c.Empty) == 0 }

// Audit checks the completeness of every symbol in the directory.
func (f Files) Audit() ([]Completeness, error) {
	symbols, err := f.Symbols()
	if err != nil {
		return nil, err
	}
	report := make([]Completeness, 0, len(symbols))
	for _, s := range symbols {
		c := Completeness{Symbol: s}
		for _, kind := range Kinds {
			data, err := readFile(f.path(s, kind))
			if err != nil || len(rows(data)) == 0 {
				c.Empty = append(c.Empty, kind)
			}
		}
		report = append(report, c)
	}
	return report, nil
}

var _ lynch.Provider = Files{}
