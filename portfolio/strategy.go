// Package portfolio assembles portfolios following a market regime strategy:
// a recommended share of the portfolio for each investment category, and a
// selection of symbols per category.
package portfolio

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/lynch"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Strategy is the recommended allocation for a market regime.
type Strategy struct {
	Name    string // falling, sideways, booming
	Label   string
	Targets map[lynch.Category]Percent
}

// Target returns the recommended share of cat.
func (s Strategy) Target(cat lynch.Category) Percent {
	if p, ok := s.Targets[cat]; ok {
		return p
	}
	return pct(decimal.Zero)
}

// Validate checks that targets are not negative and sum to 100%.
func (s Strategy) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("strategy without a name")
	}
	sum := decimal.Zero
	for cat, p := range s.Targets {
		if p.IsNegative() {
			return fmt.Errorf("strategy %s: negative target for %v", s.Name, cat)
		}
		sum = sum.Add(p.Decimal)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		return fmt.Errorf("strategy %s: targets sum to %v%%, want 100%%", s.Name, sum)
	}
	return nil
}

func targets(percents ...int64) map[lynch.Category]Percent {
	m := make(map[lynch.Category]Percent)
	for i, cat := range lynch.Categories() {
		m[cat] = pct(decimal.NewFromInt(percents[i]))
	}
	return m
}

// DefaultStrategies returns the three market regimes.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "falling", Label: "Market falling", Targets: targets(30, 25, 10, 10, 10, 15)},
		{Name: "sideways", Label: "Sideways market", Targets: targets(20, 25, 20, 15, 10, 10)},
		{Name: "booming", Label: "Market booming", Targets: targets(10, 15, 35, 20, 10, 10)},
	}
}

// Find returns the strategy named name in strategies.
func Find(strategies []Strategy, name string) (Strategy, error) {
	var names []string
	for _, s := range strategies {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
		names = append(names, s.Name)
	}
	return Strategy{}, fmt.Errorf("unknown strategy %q, want one of %s", name, strings.Join(names, ", "))
}

// yamlStrategy is the file form of a Strategy.
type yamlStrategy struct {
	Name    string             `yaml:"name"`
	Label   string             `yaml:"label"`
	Targets map[string]float64 `yaml:"targets"`
}

// ParseStrategies decodes a YAML list of strategies:
//
//	- name: falling
//	  label: Market falling
//	  targets:
//	    slow growers: 30
//	    stalwarts: 25
//	    ...
func ParseStrategies(data []byte) ([]Strategy, error) {
	var list []yamlStrategy
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("cannot decode strategies: %w", err)
	}
	out := make([]Strategy, 0, len(list))
	seen := make(map[string]bool)
	for _, y := range list {
		s := Strategy{Name: strings.ToLower(y.Name), Label: y.Label, Targets: make(map[lynch.Category]Percent)}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate strategy %q", s.Name)
		}
		seen[s.Name] = true
		for k, v := range y.Targets {
			cat, err := lynch.ParseCategory(k)
			if err != nil {
				return nil, fmt.Errorf("strategy %s: %w", s.Name, err)
			}
			s.Targets[cat] = pct(decimal.NewFromFloat(v))
		}
		if s.Label == "" {
			s.Label = y.Name
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadStrategies reads strategies from a YAML file.
func LoadStrategies(path string) ([]Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read strategies: %w", err)
	}
	return ParseStrategies(data)
}
