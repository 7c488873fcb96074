// Package alphavantage fetches quarterly fundamentals from Alpha Vantage.
//
// The OVERVIEW endpoint describes the company now: its values are attached to
// the most recent quarter only. Statements (INCOME_STATEMENT, BALANCE_SHEET,
// CASH_FLOW) and EARNINGS are merged by fiscal quarter.
package alphavantage

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
const Name = "alphavantage"

// RatePerMinute is the request rate of the free plan.
const RatePerMinute = 5

// DefaultBaseURL is the query endpoint of the API.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// Client is an Alpha Vantage API client.
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

// NewClient returns a client. The free tier allows 5 requests per minute, the
// default HTTP client respects that.
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

// query calls function for symbol. A 200 response carrying "Note" or
// "Information" is the API's way to say the quota is exhausted.
func (c *Client) query(ctx context.Context, function, symbol string) (map[string]any, error) {
	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	var data map[string]any
	if err := httpcache.GetJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), &data); err != nil {
		var serr *httpcache.StatusError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%s %s: %w", function, symbol, lynch.ErrRateLimited)
		}
		return nil, fmt.Errorf("%s %s: %w", function, symbol, err)
	}
	if msg, ok := quotaNotice(data); ok {
		return nil, fmt.Errorf("%s %s: %w: %v", function, symbol, lynch.ErrRateLimited, msg)
	}
	if msg, ok := data["Error Message"]; ok {
		return nil, fmt.Errorf("%s %s: %w: %v", function, symbol, lynch.ErrNotFound, msg)
	}
	return data, nil
}

// quotaNotice returns the message of a quota notice.
func quotaNotice(data map[string]any) (any, bool) {
	for _, k := range []string{"Note", "Information"} {
		if msg, ok := data[k]; ok {
			return msg, true
		}
	}
	return nil, false
}

// Cacheable reports whether a response can be cached for the day. Quota
// notices are not: the next run must reach the API again.
func Cacheable(_ *http.Response, body []byte) bool {
	var data map[string]any
	if err := httpcache.Decode(body, &data); err != nil {
		return false
	}
	_, notice := quotaNotice(data)
	return !notice
}

// Fetch implements lynch.Provider. It needs five API calls per symbol. A
// statement that cannot be fetched is skipped, only a rate limit stops the
// symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) ([]lynch.RawRecord, error) {
	overview, err := c.query(ctx, "OVERVIEW", symbol)
	if err != nil {
		return nil, err
	}
	if len(overview) == 0 {
		return nil, fmt.Errorf("OVERVIEW %s: %w", symbol, lynch.ErrNotFound)
	}

	m := newMerger(symbol)
	for _, s := range []struct{ function, list string }{
		{"INCOME_STATEMENT", "quarterlyReports"},
		{"BALANCE_SHEET", "quarterlyReports"},
		{"CASH_FLOW", "quarterlyReports"},
		{"EARNINGS", "quarterlyEarnings"},
	} {
		data, err := c.query(ctx, s.function, symbol)
		if err != nil {
			if errors.Is(err, lynch.ErrRateLimited) || ctx.Err() != nil {
				return nil, err
			}
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("skipping statement")
			continue
		}
		if err := m.addReports(data, s.list); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Str("function", s.function).Msg("skipping reports")
		}
	}
	return m.records(overview), nil
}

// merger accumulates reports by quarter.
type merger struct {
	symbol   string
	quarters map[date.Quarter]map[string]any
}

func newMerger(symbol string) *merger {
	return &merger{symbol: symbol, quarters: make(map[date.Quarter]map[string]any)}
}

// addReports merges the reports listed under key into their quarter. The
// first value seen for a key wins.
func (m *merger) addReports(data map[string]any, key string) error {
	list, ok := data[key].([]any)
	if !ok {
		return fmt.Errorf("no %q list", key)
	}
	for _, item := range list {
		report, ok := item.(map[string]any)
		if !ok {
			continue
		}
		end, _ := report["fiscalDateEnding"].(string)
		q, err := date.QuarterOf(end)
		if err != nil {
			continue
		}
		dst := m.quarters[q]
		if dst == nil {
			dst = make(map[string]any)
			m.quarters[q] = dst
		}
		for k, v := range report {
			if _, exists := dst[k]; !exists {
				dst[k] = v
			}
		}
	}
	return nil
}

// records returns the merged quarters, most recent first, the overview being
// merged into the most recent one.
func (m *merger) records(overview map[string]any) []lynch.RawRecord {
	periods := make([]date.Quarter, 0, len(m.quarters))
	for q := range m.quarters {
		periods = append(periods, q)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].After(periods[j]) })

	if len(periods) == 0 {
		// overview only: attach it to the quarter of its latest report
		end, _ := overview["LatestQuarter"].(string)
		q, err := date.QuarterOf(end)
		if err != nil {
			return nil
		}
		periods = append(periods, q)
		m.quarters[q] = make(map[string]any)
	}
	latest := m.quarters[periods[0]]
	for k, v := range overview {
		if _, exists := latest[k]; !exists {
			latest[k] = v
		}
	}

	raws := make([]lynch.RawRecord, 0, len(periods))
	for _, q := range periods {
		raws = append(raws, lynch.RawRecord{Provider: Name, Symbol: m.symbol, Period: q, Data: m.quarters[q]})
	}
	return raws
}
