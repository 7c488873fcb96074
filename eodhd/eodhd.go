// Package eodhd fetches fundamentals from EOD Historical Data.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/httpcache"
	"github.com/rs/zerolog"
)

// nice to redirect to https://eodhd.com/financial-summary/MCD.US

// Name is the provider name of the records.
const Name = "eodhd"

// RatePerMinute is the documented per-minute limit.
const RatePerMinute = 600

// DefaultBaseURL is the base URL for the EODHD API.
const DefaultBaseURL = "https://eodhd.com/api"

// DemoKey is accepted by the API for a handful of tickers (MCD.US, AAPL.US...).
const DemoKey = "demo"

// Client is an EODHD API client.
type Client struct {
	baseURL    string
	apiKey     string
	exchange   string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption { return func(c *Client) { c.baseURL = baseURL } }

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.httpClient = h } }

// WithLogger sets a logger.
func WithLogger(log zerolog.Logger) ClientOption { return func(c *Client) { c.log = log } }

// WithExchange sets the exchange code appended to plain symbols ("US" by default).
func WithExchange(code string) ClientOption { return func(c *Client) { c.exchange = code } }

// NewClient creates a new EODHD API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		exchange:   "US",
		httpClient: httpcache.NewClient(httpcache.Options{RatePerMinute: RatePerMinute}),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements lynch.Provider.
func (c *Client) Name() string { return Name }

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")
	addr := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	err := httpcache.GetJSON(ctx, c.httpClient, addr, result)
	var serr *httpcache.StatusError
	if errors.As(err, &serr) {
		switch serr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", path, lynch.ErrRateLimited)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", path, lynch.ErrNotFound)
		}
	}
	return err
}

// ticker returns the EODHD ticker of symbol, "SYMBOL.EXCHANGE".
func (c *Client) ticker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + "." + c.exchange
}

var _ lynch.Provider = (*Client)(nil)
