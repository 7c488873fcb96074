package fmp

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/date"
)

func TestFiles_Fetch(t *testing.T) {
	raws, err := Files{Dir: "testdata"}.Fetch(context.Background(), "XYZ")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("Fetch() returned %d records, want 2", len(raws))
	}
	if raws[0].Period != date.MustParseQuarter("2024-Q3") || raws[1].Period != date.MustParseQuarter("2024-Q2") {
		t.Errorf("Fetch() periods = %v, %v, want 2024-Q3, 2024-Q2", raws[0].Period, raws[1].Period)
	}

	tests := []struct {
		f    lynch.Field
		want string
	}{
		{lynch.MarketCap, "2.5e+09"},
		{lynch.Industry, "Steel"},
		{lynch.Revenue, "1200"},
		{lynch.TotalStockholderEquity, "2000"},
		{lynch.TotalCash, "600"},
		{lynch.PERatio, "14.2"},
		{lynch.SGA, "180"},
		{lynch.DividendRate, "0.8"},
	}
	for _, test := range tests {
		v, ok := lynch.Resolve(raws[0], test.f)
		if !ok || v.String() != test.want {
			t.Errorf("Resolve(2024-Q3, %s) = %v, %v, want %v", test.f, v, ok, test.want)
		}
	}
	if v, ok := lynch.Resolve(raws[1], lynch.MarketCap); ok {
		t.Errorf("Resolve(2024-Q2, marketCap) = %v, want absent", v)
	}
	if v, ok := lynch.Resolve(raws[1], lynch.TotalAssets); !ok || v.String() != "3900" {
		t.Errorf("Resolve(2024-Q2, totalAssets) = %v, %v, want 3900 from the JSON lines file", v, ok)
	}

	rec, err := lynch.NewReconciler(lynch.ReconcilerConfig{}).Reconcile("XYZ", raws[0].Period, raws)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	for f, want := range map[lynch.Field]float64{lynch.DebtToAssets: 0.25, lynch.FreeCashFlow: 100, lynch.CashToDebt: 0.6} {
		if got, ok := rec.Number(f); !ok || math.Abs(got-want) > 1e-12 {
			t.Errorf("Reconcile()[%s] = %v, %v, want %v", f, got, ok, want)
		}
	}
}

func TestFiles_NotFound(t *testing.T) {
	_, err := Files{Dir: "testdata"}.Fetch(context.Background(), "ABC")
	if !errors.Is(err, lynch.ErrNotFound) {
		t.Errorf("Fetch(ABC) error = %v, want ErrNotFound", err)
	}
}

func TestFiles_Audit(t *testing.T) {
	f := Files{Dir: "testdata"}
	symbols, err := f.Symbols()
	if err != nil {
		t.Fatalf("Symbols() error = %v", err)
	}
	if want := []string{"ABC", "XYZ"}; !slices.Equal(symbols, want) {
		t.Errorf("Symbols() = %v, want %v", symbols, want)
	}

	report, err := f.Audit()
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("Audit() = %v, want 2 lines", report)
	}
	if len(report[0].Empty) != len(Kinds) {
		t.Errorf("Audit() ABC empty = %v, want all datasets", report[0].Empty)
	}
	if want := []Kind{KeyMetrics}; !slices.Equal(report[1].Empty, want) || report[1].Complete() {
		t.Errorf("Audit() XYZ empty = %v, want %v", report[1].Empty, want)
	}
}

func TestClient_Fetch(t *testing.T) {
	bodies := map[string]string{
		"/profile/XYZ":                 `[{"symbol":"XYZ","mktCap":1000000,"sector":"Energy"}]`,
		"/income-statement/XYZ":        `[{"date":"2024-09-28","revenue":"1,200"}]`,
		"/balance-sheet-statement/XYZ": `[{"date":"2024-09-28","totalAssets":4000}]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "key" {
			t.Errorf("request without api key: %v", r.URL)
		}
		if !strings.HasPrefix(r.URL.Path, "/profile/") && q.Get("period") != "quarter" {
			t.Errorf("statement request without period=quarter: %v", r.URL)
		}
		if r.URL.Path == "/ratios/XYZ" {
			http.Error(w, `{"Error Message":"Limit Reach"}`, http.StatusForbidden)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			body = `[]`
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	raws, err := c.Fetch(context.Background(), "XYZ")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("Fetch() returned %d records, want 1", len(raws))
	}
	if v, ok := lynch.Resolve(raws[0], lynch.Revenue); !ok || v.String() != "1200" {
		t.Errorf("Resolve(revenue) = %v, %v, want 1200", v, ok)
	}
	if v, ok := lynch.Resolve(raws[0], lynch.Sector); !ok || v.String() != "Energy" {
		t.Errorf("Resolve(sector) = %v, %v, want Energy", v, ok)
	}
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := c.Fetch(context.Background(), "XYZ"); !errors.Is(err, lynch.ErrRateLimited) {
		t.Errorf("Fetch() error = %v, want ErrRateLimited", err)
	}
}
