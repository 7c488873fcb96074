// Package fmp fetches quarterly fundamentals from Financial Modeling Prep,
// either from the API or from a directory of downloaded files.
package fmp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/date"
	"github.com/etnz/lynch/httpcache"
	"github.com/rs/zerolog"
)

// Name is the provider name of the records.
const Name = "fmp"

// RatePerMinute is the limit of the starter plan.
const RatePerMinute = 250

// DefaultBaseURL is the v3 API root.
const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Kind is one FMP dataset.
type Kind string

const (
	Profile           Kind = "Profile"
	IncomeStatement   Kind = "IncomeStatement"
	BalanceSheet      Kind = "BalanceSheet"
	CashflowStatement Kind = "CashflowStatement"
	KeyMetrics        Kind = "KeyMetrics"
	Ratios            Kind = "Ratios"
)

// Kinds lists the datasets in merge order: when two datasets report the same
// key for a quarter, the earlier one wins.
var Kinds = []Kind{Profile, IncomeStatement, BalanceSheet, CashflowStatement, KeyMetrics, Ratios}

// endpoints maps datasets to API paths.
var endpoints = map[Kind]string{
	Profile:           "profile",
	IncomeStatement:   "income-statement",
	BalanceSheet:      "balance-sheet-statement",
	CashflowStatement: "cash-flow-statement",
	KeyMetrics:        "key-metrics",
	Ratios:            "ratios",
}

// Client is a Financial Modeling Prep API client.
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient returns a client limited to 250 requests per minute.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
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

func (c *Client) get(ctx context.Context, kind Kind, symbol string) (any, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if kind != Profile {
		params.Set("period", "quarter")
		params.Set("limit", "12")
	}
	addr := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, endpoints[kind], url.PathEscape(symbol), params.Encode())

	var data any
	err := httpcache.GetJSON(ctx, c.httpClient, addr, &data)
	var serr *httpcache.StatusError
	switch {
	case errors.As(err, &serr) && serr.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s %s: %w", kind, symbol, lynch.ErrRateLimited)
	case err != nil:
		return nil, fmt.Errorf("%s %s: %w", kind, symbol, err)
	}
	if m, ok := data.(map[string]any); ok {
		if msg, ok := m["Error Message"]; ok {
			return nil, fmt.Errorf("%s %s: %v", kind, symbol, msg)
		}
	}
	return data, nil
}

// Fetch implements lynch.Provider. It needs one call per dataset.
func (c *Client) Fetch(ctx context.Context, symbol string) ([]lynch.RawRecord, error) {
	docs := make(map[Kind]any, len(Kinds))
	for _, kind := range Kinds {
		data, err := c.get(ctx, kind, symbol)
		if err != nil {
			if errors.Is(err, lynch.ErrRateLimited) {
				return nil, err
			}
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("skipping dataset")
			continue
		}
		docs[kind] = data
	}
	raws := Merge(symbol, docs)
	if len(raws) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, lynch.ErrNotFound)
	}
	return raws, nil
}

// rows returns the objects of a dataset: either a list of objects, or a single object.
func rows(data any) []map[string]any {
	switch data := data.(type) {
	case map[string]any:
		return []map[string]any{data}
	case []any:
		var out []map[string]any
		for _, item := range data {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Merge builds one raw record per quarter out of datasets. Statement rows are
// placed by their "date"; the profile, which has none, goes to the most recent
// quarter.
func Merge(symbol string, docs map[Kind]any) []lynch.RawRecord {
	quarters := make(map[date.Quarter]map[string]any)
	for _, kind := range Kinds {
		if kind == Profile {
			continue
		}
		for _, row := range rows(docs[kind]) {
			d, _ := row["date"].(string)
			q, err := date.QuarterOf(d)
			if err != nil {
				continue
			}
			dst := quarters[q]
			if dst == nil {
				dst = make(map[string]any)
				quarters[q] = dst
			}
			for k, v := range row {
				if _, exists := dst[k]; !exists {
					dst[k] = v
				}
			}
		}
	}
	if len(quarters) == 0 {
		return nil
	}

	periods := make([]date.Quarter, 0, len(quarters))
	for q := range quarters {
		periods = append(periods, q)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].After(periods[j]) })

	if profiles := rows(docs[Profile]); len(profiles) > 0 {
		latest := quarters[periods[0]]
		for k, v := range profiles[0] {
			if _, exists := latest[k]; !exists {
				latest[k] = v
			}
		}
	}

	raws := make([]lynch.RawRecord, 0, len(periods))
	for _, q := range periods {
		raws = append(raws, lynch.RawRecord{Provider: Name, Symbol: symbol, Period: q, Data: quarters[q]})
	}
	return raws
}
var _ lynch.Provider = (*Client)(nil)
