// Package allocation holds the profile fact table: which instruments and which
// asset-class split each risk profile receives.
package allocation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aristath/advisor/internal/modules/questionnaire"
)

// SymbolsPerProfile is the number of instruments recommended per profile.
const SymbolsPerProfile = 3

// Allocation is the target asset-class split in whole percent.
type Allocation struct {
	Stocks int `json:"stocks" yaml:"stocks"`
	Bonds  int `json:"bonds" yaml:"bonds"`
	Cash   int `json:"cash" yaml:"cash"`
}

// Total returns the sum of the three shares.
func (a Allocation) Total() int {
	return a.Stocks + a.Bonds + a.Cash
}

// Entry is the table row for one risk profile.
type Entry struct {
	Symbols    []string   `json:"symbols" yaml:"symbols"`
	Allocation Allocation `json:"allocation" yaml:"allocation"`
}

// Table maps every risk profile to its entry.
type Table struct {
	Profiles map[questionnaire.RiskProfile]Entry `json:"profiles" yaml:"profiles"`
}

// DefaultTable returns the built-in profile table.
func DefaultTable() *Table {
	return &Table{
		Profiles: map[questionnaire.RiskProfile]Entry{
			questionnaire.Conservative: {
				Symbols:    []string{"JNJ", "PG", "KO"},
				Allocation: Allocation{Stocks: 30, Bonds: 50, Cash: 20},
			},
			questionnaire.Moderate: {
				Symbols:    []string{"AAPL", "MSFT", "JPM"},
				Allocation: Allocation{Stocks: 60, Bonds: 30, Cash: 10},
			},
			questionnaire.Aggressive: {
				Symbols:    []string{"NVDA", "TSLA", "AMD"},
				Allocation: Allocation{Stocks: 80, Bonds: 15, Cash: 5},
			},
		},
	}
}

// LoadTable reads a profile table from a YAML file and validates it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a YAML profile table and validates it.
// Symbols are upper-cased and trimmed.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse profile table: %w", err)
	}

	for profile, entry := range t.Profiles {
		for i, s := range entry.Symbols {
			entry.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
		}
		t.Profiles[profile] = entry
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every profile is present with exactly three unique
// symbols and an allocation of non-negative shares summing to 100.
func (t *Table) Validate() error {
	if t == nil || len(t.Profiles) == 0 {
		return fmt.Errorf("profile table is empty")
	}

	for profile := range t.Profiles {
		if !profile.Valid() {
			return fmt.Errorf("unknown risk profile %q in table", profile)
		}
	}

	for _, profile := range questionnaire.Profiles {
		entry, ok := t.Profiles[profile]
		if !ok {
			return fmt.Errorf("profile %s missing from table", profile)
		}

		if len(entry.Symbols) != SymbolsPerProfile {
			return fmt.Errorf("profile %s: expected %d symbols, got %d", profile, SymbolsPerProfile, len(entry.Symbols))
		}

		seen := make(map[string]bool, len(entry.Symbols))
		for _, s := range entry.Symbols {
			if s == "" {
				return fmt.Errorf("profile %s: empty symbol", profile)
			}
			if seen[s] {
				return fmt.Errorf("profile %s: duplicate symbol %s", profile, s)
			}
			seen[s] = true
		}

		a := entry.Allocation
		if a.Stocks < 0 || a.Bonds < 0 || a.Cash < 0 {
			return fmt.Errorf("profile %s: allocation shares must be non-negative", profile)
		}
		if a.Total() != 100 {
			return fmt.Errorf("profile %s: allocation sums to %d, expected 100", profile, a.Total())
		}
	}

	return nil
}

// Lookup returns the entry for a profile.
// The returned symbol slice is a copy; callers may modify it.
func (t *Table) Lookup(profile questionnaire.RiskProfile) (Entry, error) {
	entry, ok := t.Profiles[profile]
	if !ok {
		return Entry{}, fmt.Errorf("no table entry for risk profile %q", profile)
	}
	symbols := make([]string, len(entry.Symbols))
	copy(symbols, entry.Symbols)
	entry.Symbols = symbols
	return entry, nil
}
