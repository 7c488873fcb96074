package date

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Quarter is a fiscal period label like 2024-Q3.
//
// Providers report statements by quarter end date; the label is what records are
// matched on when looking for the adjacent period, never their position in a slice.
type Quarter struct {
	Year int
	Q    int // 1..4
}

// NewQuarter returns a normalized quarter, carrying overflow into the year.
func NewQuarter(year, q int) Quarter {
	n := year*4 + (q - 1)
	y, r := n/4, n%4
	if r < 0 {
		y, r = y-1, r+4
	}
	return Quarter{y, r + 1}
}

// ParseQuarter parses labels like "2024-Q3" or "2024Q3".
func ParseQuarter(str string) (Quarter, error) {
	s := strings.ToUpper(strings.TrimSpace(str))
	s = strings.ReplaceAll(s, "-", "")
	year, q, ok := strings.Cut(s, "Q")
	if !ok {
		return Quarter{}, fmt.Errorf("invalid quarter %q want format %q", str, "2006-Q1")
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid quarter %q: bad year: %w", str, err)
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 || n > 4 {
		return Quarter{}, fmt.Errorf("invalid quarter %q: quarter must be 1 to 4", str)
	}
	return Quarter{y, n}, nil
}

// MustParseQuarter is like ParseQuarter but panics on error.
func MustParseQuarter(str string) Quarter {
	q, err := ParseQuarter(str)
	if err != nil {
		panic(err.Error())
	}
	return q
}

// QuarterOf returns the quarter of a statement date given as "2006-01-02".
func QuarterOf(str string) (Quarter, error) {
	d, err := Parse(str)
	if err != nil {
		return Quarter{}, err
	}
	return d.Quarter(), nil
}

func (q Quarter) String() string {
	if q.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d-Q%d", q.Year, q.Q)
}

// IsZero reports whether q is unset.
func (q Quarter) IsZero() bool { return q == Quarter{} }

// Add returns the quarter n quarters after q (n may be negative).
func (q Quarter) Add(n int) Quarter { return NewQuarter(q.Year, q.Q+n) }

// Prev returns the immediately preceding quarter.
func (q Quarter) Prev() Quarter { return q.Add(-1) }

// Before reports whether q is strictly before p.
func (q Quarter) Before(p Quarter) bool {
	return q.Year < p.Year || (q.Year == p.Year && q.Q < p.Q)
}

// After reports whether q is strictly after p.
func (q Quarter) After(p Quarter) bool { return p.Before(q) }

// Start returns the first day of the quarter.
func (q Quarter) Start() Date { return New(q.Year, time.Month(3*(q.Q-1)+1), 1) }

// End returns the last day of the quarter.
func (q Quarter) End() Date { return q.Add(1).Start().Add(-1) }

func (q *Quarter) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	p, err := ParseQuarter(str)
	if err != nil {
		return err
	}
	*q = p
	return nil
}

func (q Quarter) MarshalJSON() ([]byte, error) { return json.Marshal(q.String()) }
