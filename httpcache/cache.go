// Package httpcache provides the HTTP plumbing shared by provider adapters: a
// disk cache where entries expire every day, a rate limited transport, and
// JSON GET helpers.
package httpcache

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/lynch/date"
	"github.com/rs/zerolog"
)

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base      http.RoundTripper
	dir       string
	today     func() date.Date
	cacheable func(*http.Response, []byte) bool
	log       zerolog.Logger
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If none is found, it proceeds with the actual HTTP
// request and caches the new response if it's successful and cacheable.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	// the key includes the day, so the cache expires every day.
	key := fmt.Sprintf("%s %s %s", c.today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		c.log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Msg("cache hit")
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Msgf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache write error (ignored)")
	}
	return resp, nil
}

// put stores a response to disk cache, unless it is not cacheable.
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return err
	}
	if c.cacheable != nil && !c.cacheable(resp, body) {
		c.log.Debug().Str("host", resp.Request.URL.Host).Str("path", resp.Request.URL.Path).Msg("response not cached")
		return nil
	}
	return c.write(key, resp)
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// write dumps a response to disk.
func (c *diskCache) write(key string, resp *http.Response) (err error) {
	// DumpResponse reads the body and replaces it with an in memory copy.
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}
