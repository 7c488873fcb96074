package portfolio

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in major units of a currency.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M returns value in currency.
func M(value decimal.Decimal, currency string) Money { return Money{value: value, cur: currency} }

// ParseMoney reads an amount like "10000" or "2500.50" in currency.
func ParseMoney(amount, currency string) (Money, error) {
	if money.GetCurrency(currency) == nil {
		return Money{}, fmt.Errorf("unknown currency %q", currency)
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if v.IsNegative() {
		return Money{}, fmt.Errorf("negative amount %q", amount)
	}
	return Money{value: v, cur: currency}, nil
}

// currency returns the money's currency, never nil.
func (m Money) currency() money.Currency { return *money.New(0, m.cur).Currency() }

func (m Money) String() string {
	cur := m.currency()
	return cur.Formatter().Format(m.minor())
}

func (m Money) minor() int64 {
	return m.value.Shift(int32(m.currency().Fraction)).Round(0).IntPart()
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: m.cur} }

// Allocate splits m proportionally to ratios without losing a cent: leftover
// minor units go to the first parts.
func (m Money) Allocate(ratios ...int) ([]Money, error) {
	parts, err := money.New(m.minor(), m.cur).Allocate(ratios...)
	if err != nil {
		return nil, fmt.Errorf("cannot allocate %v: %w", m, err)
	}
	return m.fromMinor(parts), nil
}

// Split divides m in n equal parts, leftovers going to the first parts.
func (m Money) Split(n int) ([]Money, error) {
	parts, err := money.New(m.minor(), m.cur).Split(n)
	if err != nil {
		return nil, fmt.Errorf("cannot split %v in %d: %w", m, n, err)
	}
	return m.fromMinor(parts), nil
}

func (m Money) fromMinor(parts []*money.Money) []Money {
	exp := -int32(m.currency().Fraction)
	out := make([]Money, len(parts))
	for i, p := range parts {
		out[i] = Money{value: decimal.New(p.Amount(), exp), cur: m.cur}
	}
	return out
}
