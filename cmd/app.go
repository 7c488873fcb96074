// Package cmd implements the lynch CLI: ingest fundamentals, classify symbols,
// rank them per category and assemble a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/alphavantage"
	"github.com/etnz/lynch/config"
	"github.com/etnz/lynch/eodhd"
	"github.com/etnz/lynch/fmp"
	"github.com/etnz/lynch/httpcache"
	"github.com/etnz/lynch/store"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var envDir = flag.String("env-dir", ".", "Directory of the .env and .env.local files")
var verbose = flag.Bool("v", false, "Log debug messages")
var plain = flag.Bool("plain", false, "Print markdown as is, without terminal formatting")

// loadConfig reads the configuration and builds the logger it describes.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadDir(*envDir)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, newLogger(cfg), nil
}

// openStore opens the record store of the configuration.
func openStore(cfg *config.Config, log zerolog.Logger) (*store.Store, error) {
	return store.Open(store.Options{Path: cfg.StorePath, Logger: log})
}

// newClassifier returns the classifier of the configuration.
func newClassifier(cfg *config.Config) (*lynch.Classifier, error) {
	return lynch.NewClassifier(cfg.Classifier())
}

// newProviders returns the configured providers in priority order. Providers
// without credentials are skipped with a warning, an unknown name is an error.
func newProviders(cfg *config.Config, log zerolog.Logger) ([]lynch.Provider, error) {
	var providers []lynch.Provider
	for _, name := range cfg.Providers {
		plog := log.With().Str("provider", name).Logger()
		switch name {
		case alphavantage.Name:
			if cfg.AlphaVantageKey == "" {
				log.Warn().Str("provider", name).Msg("ALPHAVANTAGE_API_KEY is not set, provider skipped")
				continue
			}
			providers = append(providers, alphavantage.NewClient(cfg.AlphaVantageKey,
				alphavantage.WithHTTPClient(httpClient(cfg, log, name, httpcache.Options{
					RatePerMinute: alphavantage.RatePerMinute,
					Cacheable:     alphavantage.Cacheable,
				})),
				alphavantage.WithLogger(plog)))
		case fmp.Name:
			if cfg.FMPDir != "" {
				providers = append(providers, fmp.Files{Dir: cfg.FMPDir})
				continue
			}
			if cfg.FMPKey == "" {
				log.Warn().Str("provider", name).Msg("FMP_API_KEY and LYNCH_FMP_DIR are not set, provider skipped")
				continue
			}
			providers = append(providers, fmp.NewClient(cfg.FMPKey,
				fmp.WithHTTPClient(httpClient(cfg, log, name, httpcache.Options{RatePerMinute: fmp.RatePerMinute})),
				fmp.WithLogger(plog)))
		case eodhd.Name:
			if cfg.EODHDKey == "" {
				log.Warn().Str("provider", name).Msg("EODHD_API_KEY is not set, provider skipped")
				continue
			}
			providers = append(providers, newEODHD(cfg, log))
		default:
			return nil, fmt.Errorf("unknown provider %q in LYNCH_PROVIDERS", name)
		}
	}
	if len(providers) == 0 {
		return nil, errors.New("no provider available: set an API key or LYNCH_FMP_DIR")
	}
	return providers, nil
}

// httpClient returns the cached and rate limited client of a provider, opts
// carrying the provider specific settings.
func httpClient(cfg *config.Config, log zerolog.Logger, name string, opts httpcache.Options) *http.Client {
	opts.CacheDir = filepath.Join(cfg.CacheDir, name)
	opts.Logger = log.With().Str("provider", name).Logger()
	return httpcache.NewClient(opts)
}

func newEODHD(cfg *config.Config, log zerolog.Logger) *eodhd.Client {
	return eodhd.NewClient(cfg.EODHDKey,
		eodhd.WithHTTPClient(httpClient(cfg, log, eodhd.Name, httpcache.Options{RatePerMinute: eodhd.RatePerMinute})),
		eodhd.WithLogger(log.With().Str("provider", eodhd.Name).Logger()))
}

// latest returns the most recent canonical record of symbol.
func latest(db *store.Store, symbol string) (lynch.Record, error) {
	rec, err := db.Latest(symbol, lynch.DefaultSource)
	if errors.Is(err, store.ErrNotFound) {
		return rec, fmt.Errorf("no record for %s, run 'lynch ingest %s' first", symbol, symbol)
	}
	return rec, err
}
