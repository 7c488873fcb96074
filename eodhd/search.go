package eodhd

import (
	"context"
	"net/url"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string  `json:"Code"`
	Exchange          string  `json:"Exchange"`
	Name              string  `json:"Name"`
	Type              string  `json:"Type"`
	Country           string  `json:"Country"`
	Currency          string  `json:"Currency"`
	ISIN              string  `json:"ISIN"`
	PreviousClose     float64 `json:"previousClose"`
	PreviousCloseDate string  `json:"previousCloseDate"`
}

// Ticker returns the symbol to use with Fetch.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for securities by name, ticker or ISIN. Only common stocks
// are returned, funds and bonds have no fundamentals to classify.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	var results []SearchResult
	params := url.Values{}
	params.Set("type", "stock")
	if err := c.get(ctx, "/search/"+url.PathEscape(term), params, &results); err != nil {
		return nil, err
	}
	stocks := results[:0]
	for _, r := range results {
		if r.Type == "" || r.Type == "Common Stock" {
			stocks = append(stocks, r)
		}
	}
	return stocks, nil
}
