package httpcache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned by GetJSON for non 200 responses.
type StatusError struct {
	StatusCode int
	Status     string
	Host, Path string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %v%v: %v", e.Host, e.Path, e.Status)
}

// GetBytes performs an HTTP GET request and returns the body of a 200 response.
func GetBytes(ctx context.Context, client *http.Client, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Host:       resp.Request.URL.Host,
			Path:       resp.Request.URL.Path,
			Body:       string(body),
		}
	}
	return body, nil
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into
// data. Numbers are decoded as json.Number so that no precision is lost before
// coercion.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	body, err := GetBytes(ctx, client, addr)
	if err != nil {
		return err
	}
	return Decode(body, data)
}

// Decode unmarshals a single JSON document keeping numbers as json.Number.
func Decode(body []byte, data any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("cannot decode response: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("cannot decode response: trailing data after the JSON document")
	}
	return nil
}
