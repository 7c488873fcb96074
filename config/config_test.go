package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

var vars = []string{
	"STORE_PATH", "CACHE_DIR", "PROVIDERS", "FMP_DIR", "ALPHAVANTAGE_API_KEY", "FMP_API_KEY", "EODHD_API_KEY",
	"TIE_EPSILON", "OPTIONAL_WEIGHT", "YOY_LAG", "SGA_WINDOW", "BATCH_SIZE", "STRICT",
	"STRATEGIES", "SELECTION", "CURRENCY", "LOG_LEVEL",
}

// clearEnv unsets every variable Load reads, and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range vars {
		for _, k := range []string{v, Prefix + "_" + v} {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if want := []string{"alphavantage", "fmp", "eodhd"}; !slices.Equal(cfg.Providers, want) {
		t.Errorf("Providers = %v, want %v", cfg.Providers, want)
	}
	if cfg.TieEpsilon != 0.02 || cfg.OptionalWeight != 1 || cfg.YoYLag != 4 || cfg.BatchSize != 50 {
		t.Errorf("LoadDir() = %+v, want defaults", cfg)
	}
	if !strings.HasSuffix(cfg.StorePath, filepath.Join("lynch", "store")) {
		t.Errorf("StorePath = %q, want a lynch/store directory", cfg.StorePath)
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("Level() = %v, want info", cfg.Level())
	}
	if cc := cfg.Classifier(); cc.Epsilon != 0.02 {
		t.Errorf("Classifier().Epsilon = %v, want 0.02", cc.Epsilon)
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("LYNCH_PROVIDERS", "FMP, eodhd")
	t.Setenv("FMP_API_KEY", "secret")
	t.Setenv("LYNCH_TIE_EPSILON", "0")
	t.Setenv("STRICT", "true")
	t.Setenv("LYNCH_LOG_LEVEL", "debug")
	cfg, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if want := []string{"fmp", "eodhd"}; !slices.Equal(cfg.Providers, want) {
		t.Errorf("Providers = %v, want %v", cfg.Providers, want)
	}
	if cfg.FMPKey != "secret" || cfg.TieEpsilon != 0 || !cfg.Strict || cfg.Level() != zerolog.DebugLevel {
		t.Errorf("LoadDir() = %+v", cfg)
	}
	if rc := cfg.Reconciler(zerolog.Nop()); !slices.Equal(rc.Priority, cfg.Providers) {
		t.Errorf("Reconciler().Priority = %v", rc.Priority)
	}
	if cc := cfg.Classifier(); cc.Epsilon >= 0 || cc.OptionalWeight != 1 {
		t.Errorf("Classifier() = %+v, want exact ties", cc)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ".env"), []byte("EODHD_API_KEY=from-env\nLYNCH_BATCH_SIZE=10\nCURRENCY=EUR\n"), 0o644)
	os.WriteFile(filepath.Join(dir, ".env.local"), []byte("EODHD_API_KEY=from-local\n"), 0o644)
	t.Setenv("LYNCH_CURRENCY", "CHF")

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.EODHDKey != "from-local" {
		t.Errorf("EODHDKey = %q, want from-local", cfg.EODHDKey)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", cfg.BatchSize)
	}
	if cfg.Currency != "CHF" {
		t.Errorf("Currency = %q, want the prefixed variable CHF", cfg.Currency)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"LYNCH_PROVIDERS":       "yahoo",
		"LYNCH_OPTIONAL_WEIGHT": "1.5",
		"LYNCH_BATCH_SIZE":      "0",
		"LYNCH_SGA_WINDOW":      "1",
		"LYNCH_LOG_LEVEL":       "chatty",
		"LYNCH_YOY_LAG":         "four",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			if _, err := LoadDir(t.TempDir()); err == nil {
				t.Errorf("LoadDir() with %s=%s succeeded", k, v)
			}
		})
	}
}
