package date

import (
	"encoding/json"
	"testing"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-7-1", "2025-07-01", false},
		{"2024-09-30", "2024-09-30", false},
		{"2024/09/30", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestQuarter(t *testing.T) {
	tests := []struct {
		in   string
		want Quarter
		end  string
		prev string
	}{
		{"2024-Q3", Quarter{2024, 3}, "2024-09-30", "2024-Q2"},
		{"2024Q1", Quarter{2024, 1}, "2024-03-31", "2023-Q4"},
		{"2023-q4", Quarter{2023, 4}, "2023-12-31", "2023-Q3"},
	}
	for _, tt := range tests {
		got, err := ParseQuarter(tt.in)
		if err != nil {
			t.Fatalf("ParseQuarter(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseQuarter(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if e := got.End().String(); e != tt.end {
			t.Errorf("%v.End() = %v, want %v", got, e, tt.end)
		}
		if p := got.Prev().String(); p != tt.prev {
			t.Errorf("%v.Prev() = %v, want %v", got, p, tt.prev)
		}
	}

	for _, bad := range []string{"2024", "2024-Q5", "Q3", "abcd-Q1"} {
		if _, err := ParseQuarter(bad); err == nil {
			t.Errorf("ParseQuarter(%q) expected an error", bad)
		}
	}
}

func TestQuarterAdd(t *testing.T) {
	q := MustParseQuarter("2024-Q1")
	if got := q.Add(-4).String(); got != "2023-Q1" {
		t.Errorf("Add(-4) = %v, want 2023-Q1", got)
	}
	if got := q.Add(7).String(); got != "2025-Q4" {
		t.Errorf("Add(7) = %v, want 2025-Q4", got)
	}
	if !q.Before(q.Add(1)) || !q.Add(1).After(q) {
		t.Error("Before/After are inconsistent")
	}
}

func TestQuarterOf(t *testing.T) {
	q, err := QuarterOf("2024-06-29")
	if err != nil {
		t.Fatal(err)
	}
	if q.String() != "2024-Q2" {
		t.Errorf("QuarterOf() = %v, want 2024-Q2", q)
	}
}

func TestQuarterJSON(t *testing.T) {
	q := MustParseQuarter("2024-Q3")
	b, err := json.Marshal(q)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-Q3"` {
		t.Errorf("Marshal() = %s, want %q", b, `"2024-Q3"`)
	}
	var back Quarter
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != q {
		t.Errorf("Unmarshal() = %v, want %v", back, q)
	}
}
