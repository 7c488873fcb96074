package store

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/date"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(symbol, period string, pe float64) lynch.Record {
	v, _ := lynch.NumberValue(pe)
	return lynch.Record{
		Symbol: symbol,
		Period: date.MustParseQuarter(period),
		Source: lynch.DefaultSource,
		Values: map[lynch.Field]lynch.Value{lynch.PERatio: v, lynch.Sector: lynch.TextValue("Energy")},
		Missing: []lynch.Field{lynch.CashToDebt},
	}
}

var now = time.Date(2024, 10, 15, 8, 0, 0, 0, time.UTC)

func TestUpsert_Replaces(t *testing.T) {
	s := open(t)
	if err := s.Upsert(NewDocument(record("XYZ", "2024-Q3", 10), "run1", now)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := s.Upsert(NewDocument(record("XYZ", "2024-Q3", 12), "run2", now)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	doc, err := s.Get("XYZ|2024-09-30|consolidated")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pe, _ := doc.Record.Number(lynch.PERatio); pe != 12 || doc.RunID != "run2" {
		t.Errorf("Get() = pe %v run %q, want 12 run2", pe, doc.RunID)
	}
	if !slices.Equal(doc.Record.Missing, []lynch.Field{lynch.CashToDebt}) {
		t.Errorf("Get().Record.Missing = %v, want [cashToDebt]", doc.Record.Missing)
	}
	if v, _ := doc.Record.Get(lynch.Sector); v.String() != "Energy" {
		t.Errorf("Get().Record[sector] = %v, want Energy", v)
	}
	series, _ := s.Series("XYZ", lynch.DefaultSource)
	if len(series) != 1 {
		t.Errorf("Series() has %d records, want 1", len(series))
	}
}

func TestGet_NotFound(t *testing.T) {
	s := open(t)
	if _, err := s.Get("NOPE|2024-09-30|consolidated"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Latest("NOPE", lynch.DefaultSource); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

func TestSeries(t *testing.T) {
	s := open(t)
	docs := []Document{
		NewDocument(record("XYZ", "2024-Q3", 13), "", now),
		NewDocument(record("XYZ", "2024-Q1", 11), "", now),
		NewDocument(record("XYZ", "2024-Q2", 12), "", now),
		NewDocument(record("ABC", "2024-Q3", 30), "", now),
	}
	other := record("XYZ", "2024-Q4", 99)
	other.Source = "fmp"
	docs = append(docs, NewDocument(other, "", now))
	if err := s.UpsertAll(docs); err != nil {
		t.Fatalf("UpsertAll() error = %v", err)
	}

	series, err := s.Series("XYZ", lynch.DefaultSource)
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	var periods []string
	for _, r := range series {
		periods = append(periods, r.Period.String())
	}
	if want := []string{"2024-Q1", "2024-Q2", "2024-Q3"}; !slices.Equal(periods, want) {
		t.Errorf("Series() = %v, want %v", periods, want)
	}

	latest, err := s.Latest("XYZ", lynch.DefaultSource)
	if err != nil || latest.Period.String() != "2024-Q3" {
		t.Errorf("Latest() = %v, %v, want 2024-Q3", latest.Period, err)
	}

	// writes invalidate the cached series
	if err := s.Upsert(NewDocument(record("XYZ", "2024-Q4", 14), "", now)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	latest, _ = s.Latest("XYZ", lynch.DefaultSource)
	if latest.Period.String() != "2024-Q4" {
		t.Errorf("Latest() after upsert = %v, want 2024-Q4", latest.Period)
	}

	all, err := s.LatestAll(lynch.DefaultSource)
	if err != nil {
		t.Fatalf("LatestAll() error = %v", err)
	}
	if len(all) != 2 || all[0].Symbol != "ABC" || all[1].Period.String() != "2024-Q4" {
		t.Errorf("LatestAll() = %v, want ABC 2024-Q3 and XYZ 2024-Q4", all)
	}

	dates, _ := s.Dates(lynch.DefaultSource)
	if want := []string{"2024-12-31", "2024-09-30", "2024-06-30", "2024-03-31"}; !slices.Equal(dates, want) {
		t.Errorf("Dates() = %v, want %v", dates, want)
	}
	at, _ := s.At(lynch.DefaultSource, "2024-09-30")
	if len(at) != 2 || at[0].Symbol != "ABC" || at[1].Symbol != "XYZ" {
		t.Errorf("At(2024-09-30) = %v, want ABC and XYZ", at)
	}
	symbols, _ := s.Symbols(lynch.DefaultSource)
	if want := []string{"ABC", "XYZ"}; !slices.Equal(symbols, want) {
		t.Errorf("Symbols() = %v, want %v", symbols, want)
	}
}

func TestUpsertAll_Atomic(t *testing.T) {
	s := open(t)
	docs := []Document{NewDocument(record("XYZ", "2024-Q3", 13), "", now), {Symbol: "BAD"}}
	if err := s.UpsertAll(docs); err == nil {
		t.Fatalf("UpsertAll() with a document without ID succeeded")
	}
	if _, err := s.Get("XYZ|2024-09-30|consolidated"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound after a failed bulk upsert", err)
	}
}

func TestDelete(t *testing.T) {
	s := open(t)
	doc := NewDocument(record("XYZ", "2024-Q3", 13), "", now)
	if err := s.Upsert(doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	s.Series("XYZ", lynch.DefaultSource) // fill the cache
	if err := s.Delete(doc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if series, _ := s.Series("XYZ", lynch.DefaultSource); len(series) != 0 {
		t.Errorf("Series() after Delete() = %v, want empty", series)
	}
	if err := s.Delete(doc.ID); err != nil {
		t.Errorf("Delete() twice error = %v, want nil", err)
	}
}

func TestOpen_Disk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Path: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Upsert(NewDocument(record("XYZ", "2024-Q3", 13), "", now)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(Options{Path: dir})
	if err != nil {
		t.Fatalf("Open() again error = %v", err)
	}
	defer s.Close()
	if _, err := s.Latest("XYZ", lynch.DefaultSource); err != nil {
		t.Errorf("Latest() after reopening error = %v", err)
	}
}
