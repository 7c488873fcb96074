package httpcache

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/lynch/date"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Options configures NewClient. Zero values select the defaults.
type Options struct {
	// CacheDir enables the daily disk cache. Empty disables caching.
	CacheDir string
	// RatePerMinute limits outgoing requests. Zero means no limit.
	RatePerMinute int
	// Base is the underlying transport, http.DefaultTransport by default.
	Base   http.RoundTripper
	Logger zerolog.Logger
	// Today overrides the cache day, for tests.
	Today func() date.Date
	// Cacheable tells whether a successful response may be cached. Nil
	// caches every one.
	Cacheable func(resp *http.Response, body []byte) bool
}

// DefaultCacheDir returns the cache directory used when none is configured.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "lynch")
	}
	return filepath.Join(os.TempDir(), "lynch")
}

// NewClient returns an http.Client for a provider. Cached responses do not
// consume the rate limit: the limiter sits below the cache.
func NewClient(opts Options) *http.Client {
	t := opts.Base
	if t == nil {
		t = http.DefaultTransport
	}
	if opts.RatePerMinute > 0 {
		t = &limited{
			base:    t,
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1),
		}
	}
	if opts.CacheDir != "" {
		today := opts.Today
		if today == nil {
			today = date.Today
		}
		t = &diskCache{base: t, dir: opts.CacheDir, today: today, cacheable: opts.Cacheable, log: opts.Logger}
	}
	return &http.Client{Transport: t, Timeout: DefaultTimeout}
}

// limited waits for the limiter before each request.
type limited struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (l *limited) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := l.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return l.base.RoundTrip(req)
}
