// Package ingest runs batch ingestions: fetch every provider for a symbol,
// reconcile each reported quarter and store the canonical records.
//
// Symbols are processed one at a time. A provider failure only drops that
// provider for the symbol; a symbol without any usable data is reported as
// failed and the batch continues, unless Strict is set.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/date"
	"github.com/etnz/lynch/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBatchSize is the number of documents written per store transaction.
const DefaultBatchSize = 50

// Store is where reconciled records go. It also provides the history the
// growth calculator needs.
type Store interface {
	lynch.SeriesSource
	UpsertAll(docs []store.Document) error
}

// Config configures a Batch.
type Config struct {
	Providers  []lynch.Provider
	Store      Store
	Reconciler lynch.ReconcilerConfig
	// BatchSize is the number of documents buffered before they are written.
	BatchSize int
	// Strict stops the batch on the first failed symbol.
	Strict bool
	Logger zerolog.Logger
	Now    func() time.Time
}

// Batch is a configured ingestion.
type Batch struct {
	cfg        Config
	reconciler *lynch.Reconciler
	pending    *overlay
	log        zerolog.Logger
}

// New returns a Batch for cfg.
func New(cfg Config) (*Batch, error) {
	if cfg.Store == nil {
		return nil, errors.New("ingest: a store is required")
	}
	if len(cfg.Providers) == 0 {
		return nil, errors.New("ingest: at least one provider is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	b := &Batch{cfg: cfg, pending: newOverlay(cfg.Store), log: cfg.Logger}
	rc := cfg.Reconciler
	rc.History = b.pending
	rc.Logger = cfg.Logger
	b.reconciler = lynch.NewReconciler(rc)
	return b, nil
}

// Run ingests symbols in order. The returned error is only set when the batch
// was interrupted: the context was cancelled, the store failed, or a symbol
// failed in strict mode. The report always describes what was done.
func (b *Batch) Run(ctx context.Context, symbols []string) (Report, error) {
	report := Report{RunID: uuid.NewString(), Started: b.cfg.Now()}
	log := b.log.With().Str("run", report.RunID).Logger()
	log.Info().Int("symbols", len(symbols)).Msg("ingestion started")

	finish := func(err error) (Report, error) {
		if ferr := b.flush(report.RunID); ferr != nil && err == nil {
			err = ferr
		}
		report.Finished = b.cfg.Now()
		log.Info().Int("stored", report.Stored()).Int("failed", len(report.Failed())).
			Dur("took", report.Finished.Sub(report.Started)).Msg("ingestion finished")
		return report, err
	}

	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		symbol = Normalize(symbol)
		if symbol == "" {
			continue
		}
		out := b.symbol(ctx, symbol)
		report.Outcomes = append(report.Outcomes, out)
		ev := log.Info()
		if out.Err != nil {
			ev = log.Warn().Err(out.Err)
		}
		ev.Str("symbol", symbol).Int("records", out.Records).Strs("providers", out.Providers).
			Msgf("[%d/%d] %s", i+1, len(symbols), out.Status)

		if b.pending.len() >= b.cfg.BatchSize {
			if err := b.flush(report.RunID); err != nil {
				return finish(err)
			}
		}
		if out.Err != nil && b.cfg.Strict {
			return finish(fmt.Errorf("ingest %s: %w", symbol, out.Err))
		}
		if errors.Is(out.Err, context.Canceled) || errors.Is(out.Err, context.DeadlineExceeded) {
			return finish(out.Err)
		}
	}
	return finish(nil)
}

// symbol fetches and reconciles one symbol. Records are buffered, not written.
func (b *Batch) symbol(ctx context.Context, symbol string) Outcome {
	out := Outcome{Symbol: symbol, Status: Failed}
	var raws []lynch.RawRecord
	var errs []error
	for _, p := range b.cfg.Providers {
		rs, err := p.Fetch(ctx, symbol)
		if err != nil {
			b.log.Debug().Err(err).Str("symbol", symbol).Str("provider", p.Name()).Msg("provider skipped")
			if errors.Is(err, lynch.ErrRateLimited) {
				out.RateLimited = append(out.RateLimited, p.Name())
			}
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			if ctx.Err() != nil {
				out.Err = ctx.Err()
				return out
			}
			continue
		}
		if len(rs) > 0 {
			out.Providers = append(out.Providers, p.Name())
		}
		raws = append(raws, rs...)
	}
	if len(raws) == 0 {
		errs = append(errs, lynch.ErrNoUsableData)
		out.Err = errors.Join(errs...)
		return out
	}

	groups := lynch.GroupByPeriod(raws)
	periods := make([]date.Quarter, 0, len(groups))
	for q := range groups {
		periods = append(periods, q)
	}
	// Oldest first: each quarter's growth sees the quarters before it.
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	var latest lynch.Record
	for _, q := range periods {
		rec, err := b.reconciler.Reconcile(symbol, q, groups[q])
		if errors.Is(err, lynch.ErrNoUsableData) {
			continue
		}
		if err != nil {
			out.Err = err
			return out
		}
		b.pending.add(rec)
		out.Records++
		latest = rec
	}
	if out.Records == 0 {
		out.Err = fmt.Errorf("%s: %w", symbol, lynch.ErrNoUsableData)
		return out
	}
	out.Status = Stored
	if len(errs) > 0 {
		out.Status = Partial
	}
	out.Latest = latest.Period
	out.Missing = latest.Missing
	return out
}

// flush writes the buffered records in one transaction.
func (b *Batch) flush(runID string) error {
	records := b.pending.drain()
	if len(records) == 0 {
		return nil
	}
	now := b.cfg.Now()
	docs := make([]store.Document, len(records))
	for i, r := range records {
		docs[i] = store.NewDocument(r, runID, now)
	}
	if err := b.cfg.Store.UpsertAll(docs); err != nil {
		return fmt.Errorf("cannot store %d documents: %w", len(docs), err)
	}
	b.log.Debug().Int("documents", len(docs)).Msg("flushed")
	return nil
}

// Normalize returns the canonical form of a ticker symbol.
func Normalize(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }
