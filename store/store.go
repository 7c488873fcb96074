// Package store persists canonical records in an embedded Badger database.
//
// Each record is a Document whose identity is {symbol}|{date}|{source}:
// storing the same identity again replaces it. Series reads are cached per
// process and invalidated on write, so a symbol's writes are visible to its
// next read.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/etnz/lynch"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/timshannon/badgerhold/v4"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")

// Document is the stored form of a canonical record.
type Document struct {
	ID         string       `json:"id"`
	Symbol     string       `json:"symbol" badgerhold:"index"`
	Source     string       `json:"source"`
	Date       string       `json:"date"`
	Period     string       `json:"period"`
	IngestedAt time.Time    `json:"ingestedAt"`
	RunID      string       `json:"runId,omitempty"`
	Record     lynch.Record `json:"record"`
}

// NewDocument wraps rec for storage.
func NewDocument(rec lynch.Record, runID string, at time.Time) Document {
	return Document{
		ID:         rec.ID(),
		Symbol:     rec.Symbol,
		Source:     rec.Source,
		Date:       rec.Date().String(),
		Period:     rec.Period.String(),
		IngestedAt: at.UTC(),
		RunID:      runID,
		Record:     rec,
	}
}

// Options configures Open.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// CacheTTL is how long series reads are cached, 10 minutes by default.
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// Store is the document store.
type Store struct {
	db     *badgerhold.Store
	series *cache.Cache
	log    zerolog.Logger
}

// Open opens or creates the store.
func Open(opts Options) (*Store, error) {
	options := badgerhold.DefaultOptions
	// Records hold tagged values gob cannot encode, documents are stored as JSON.
	options.Encoder = json.Marshal
	options.Decoder = json.Unmarshal
	options.Logger = nil
	if opts.InMemory {
		options.InMemory = true
		options.Dir, options.ValueDir = "", ""
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("store path is required")
		}
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create store directory: %w", err)
		}
		options.Dir, options.ValueDir = opts.Path, opts.Path
	}

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("cannot open store %q: %w", opts.Path, err)
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	opts.Logger.Debug().Str("path", opts.Path).Bool("inMemory", opts.InMemory).Msg("store opened")
	return &Store{db: db, series: cache.New(ttl, 2*ttl), log: opts.Logger}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func seriesKey(symbol, source string) string { return symbol + "|" + source }

// Upsert stores doc, replacing any document with the same identity.
func (s *Store) Upsert(doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	if err := s.db.Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("cannot save document %s: %w", doc.ID, err)
	}
	s.series.Delete(seriesKey(doc.Symbol, doc.Source))
	return nil
}

// UpsertAll stores docs in a single transaction: either all are stored or none.
func (s *Store) UpsertAll(docs []Document) error {
	err := s.db.Badger().Update(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if doc.ID == "" {
				return fmt.Errorf("document ID is required")
			}
			if err := s.db.TxUpsert(tx, doc.ID, doc); err != nil {
				return fmt.Errorf("cannot save document %s: %w", doc.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, doc := range docs {
		s.series.Delete(seriesKey(doc.Symbol, doc.Source))
	}
	s.log.Debug().Int("documents", len(docs)).Msg("bulk upsert")
	return nil
}

// Get returns the document with the given identity.
func (s *Store) Get(id string) (Document, error) {
	var doc Document
	err := s.db.Get(id, &doc)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return Document{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("cannot read document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes the document with the given identity. Removing a missing
// document is not an error.
func (s *Store) Delete(id string) error {
	doc, err := s.Get(id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.db.Delete(id, Document{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("cannot delete document %s: %w", id, err)
	}
	s.series.Delete(seriesKey(doc.Symbol, doc.Source))
	return nil
}

// Documents returns the documents of symbol for source, oldest first.
func (s *Store) Documents(symbol, source string) ([]Document, error) {
	var docs []Document
	err := s.db.Find(&docs, badgerhold.Where("Symbol").Eq(symbol).Index("Symbol").And("Source").Eq(source).SortBy("Date"))
	if err != nil {
		return nil, fmt.Errorf("cannot query %s/%s: %w", symbol, source, err)
	}
	return docs, nil
}

// Series returns the records of symbol for source in chronological order. It
// implements lynch.SeriesSource.
func (s *Store) Series(symbol, source string) ([]lynch.Record, error) {
	key := seriesKey(symbol, source)
	if v, ok := s.series.Get(key); ok {
		return append([]lynch.Record(nil), v.([]lynch.Record)...), nil
	}
	docs, err := s.Documents(symbol, source)
	if err != nil {
		return nil, err
	}
	records := make([]lynch.Record, len(docs))
	for i, d := range docs {
		records[i] = d.Record
	}
	s.series.SetDefault(key, records)
	return append([]lynch.Record(nil), records...), nil
}

// Latest returns the most recent record of symbol for source.
func (s *Store) Latest(symbol, source string) (lynch.Record, error) {
	series, err := s.Series(symbol, source)
	if err != nil {
		return lynch.Record{}, err
	}
	if len(series) == 0 {
		return lynch.Record{}, fmt.Errorf("%s/%s: %w", symbol, source, ErrNotFound)
	}
	return series[len(series)-1], nil
}

// LatestAll returns the most recent record of every symbol for source, sorted by symbol.
func (s *Store) LatestAll(source string) ([]lynch.Record, error) {
	var docs []Document
	if err := s.db.Find(&docs, badgerhold.Where("Source").Eq(source)); err != nil {
		return nil, fmt.Errorf("cannot query %s: %w", source, err)
	}
	latest := make(map[string]Document)
	for _, d := range docs {
		if cur, ok := latest[d.Symbol]; !ok || d.Date > cur.Date {
			latest[d.Symbol] = d
		}
	}
	records := make([]lynch.Record, 0, len(latest))
	for _, d := range latest {
		records = append(records, d.Record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Symbol < records[j].Symbol })
	return records, nil
}

// At returns the records of source dated on day ("2024-09-30"), sorted by symbol.
func (s *Store) At(source, day string) ([]lynch.Record, error) {
	var docs []Document
	if err := s.db.Find(&docs, badgerhold.Where("Source").Eq(source).And("Date").Eq(day).SortBy("Symbol")); err != nil {
		return nil, fmt.Errorf("cannot query %s at %s: %w", source, day, err)
	}
	records := make([]lynch.Record, len(docs))
	for i, d := range docs {
		records[i] = d.Record
	}
	return records, nil
}

// Dates returns the distinct record dates of source, most recent first.
func (s *Store) Dates(source string) ([]string, error) {
	var docs []Document
	if err := s.db.Find(&docs, badgerhold.Where("Source").Eq(source)); err != nil {
		return nil, fmt.Errorf("cannot query %s: %w", source, err)
	}
	seen := make(map[string]bool)
	var dates []string
	for _, d := range docs {
		if !seen[d.Date] {
			seen[d.Date] = true
			dates = append(dates, d.Date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// Symbols returns the distinct symbols stored for source, sorted.
func (s *Store) Symbols(source string) ([]string, error) {
	records, err := s.LatestAll(source)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, len(records))
	for i, r := range records {
		symbols[i] = r.Symbol
	}
	return symbols, nil
}

var _ lynch.SeriesSource = (*Store)(nil)
