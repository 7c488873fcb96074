// Package config reads the lynch configuration from the environment.
//
// Variables are read with the LYNCH_ prefix (LYNCH_STORE_PATH) and fall back
// to the bare name (STORE_PATH), so that the usual provider variables
// (ALPHAVANTAGE_API_KEY, FMP_API_KEY, EODHD_API_KEY) work as is. Files
// ".env.local" then ".env" are loaded first; variables already set win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/lynch"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Prefix of the environment variables.
const Prefix = "LYNCH"

// Files are the dotenv files loaded, in order of precedence.
var Files = []string{".env.local", ".env"}

// Config is the lynch configuration.
type Config struct {
	StorePath string `envconfig:"STORE_PATH"`
	CacheDir  string `envconfig:"CACHE_DIR"`
	// Providers in priority order.
	Providers []string `envconfig:"PROVIDERS" default:"alphavantage,fmp,eodhd"`
	// FMPDir holds {SYMBOL}_{Kind}.json files used instead of the FMP API.
	FMPDir string `envconfig:"FMP_DIR"`

	AlphaVantageKey string `envconfig:"ALPHAVANTAGE_API_KEY"`
	FMPKey          string `envconfig:"FMP_API_KEY"`
	EODHDKey        string `envconfig:"EODHD_API_KEY"`

	TieEpsilon     float64 `envconfig:"TIE_EPSILON" default:"0.02"`
	OptionalWeight float64 `envconfig:"OPTIONAL_WEIGHT" default:"1"`
	YoYLag         int     `envconfig:"YOY_LAG" default:"4"`
	SGAWindow      int     `envconfig:"SGA_WINDOW" default:"4"`

	BatchSize int  `envconfig:"BATCH_SIZE" default:"50"`
	Strict    bool `envconfig:"STRICT"`

	Strategies string `envconfig:"STRATEGIES"` // YAML file, built-in regimes when empty
	Selection  string `envconfig:"SELECTION"`
	Currency   string `envconfig:"CURRENCY" default:"USD"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the dotenv files of the working directory and the environment.
func Load() (*Config, error) { return LoadDir(".") }

// LoadDir is Load with the dotenv files looked up in dir.
func LoadDir(dir string) (*Config, error) {
	for _, name := range Files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("cannot load %s: %w", path, err)
		}
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() error {
	if c.StorePath == "" || c.Selection == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("cannot locate the user config directory: %w", err)
		}
		if c.StorePath == "" {
			c.StorePath = filepath.Join(dir, "lynch", "store")
		}
		if c.Selection == "" {
			c.Selection = filepath.Join(dir, "lynch", "selection.jsonl")
		}
	}
	if c.CacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("cannot locate the user cache directory: %w", err)
		}
		c.CacheDir = filepath.Join(dir, "lynch")
	}
	return nil
}

// KnownProviders are the provider names Providers accepts.
var KnownProviders = []string{"alphavantage", "fmp", "eodhd"}

// Validate checks the values.
func (c *Config) Validate() error {
	var errs []error
	for i, p := range c.Providers {
		p = strings.ToLower(strings.TrimSpace(p))
		c.Providers[i] = p
		known := false
		for _, k := range KnownProviders {
			known = known || k == p
		}
		if !known {
			errs = append(errs, fmt.Errorf("unknown provider %q", p))
		}
	}
	if c.OptionalWeight <= 0 || c.OptionalWeight > 1 {
		errs = append(errs, fmt.Errorf("optional weight %v not in (0, 1]", c.OptionalWeight))
	}
	if c.YoYLag <= 0 {
		errs = append(errs, fmt.Errorf("invalid YoY lag %d", c.YoYLag))
	}
	if c.SGAWindow < 2 {
		errs = append(errs, fmt.Errorf("SG&A window %d too short", c.SGAWindow))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid batch size %d", c.BatchSize))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the log level.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Classifier returns the classifier configuration. A zero tie epsilon was set
// explicitly, it means exact ties only.
func (c *Config) Classifier() lynch.ClassifierConfig {
	epsilon := c.TieEpsilon
	if epsilon <= 0 {
		epsilon = -1
	}
	return lynch.ClassifierConfig{Epsilon: epsilon, OptionalWeight: c.OptionalWeight}
}

// Reconciler returns the reconciler configuration.
func (c *Config) Reconciler(log zerolog.Logger) lynch.ReconcilerConfig {
	return lynch.ReconcilerConfig{Priority: c.Providers, YoYLag: c.YoYLag, SGAWindow: c.SGAWindow, Logger: log}
}
