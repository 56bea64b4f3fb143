// Package badges resolves CO2 savings to named achievement tiers.
package badges

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidTiers indicates a tier table that cannot be resolved against.
var ErrInvalidTiers = errors.New("badge tiers must be non-empty, named, positive and strictly descending by threshold")

// Tier is a named level unlocked once CO2 savings reach ThresholdKg.
type Tier struct {
	ThresholdKg float64 `json:"thresholdKg" yaml:"threshold_kg"`
	Name        string  `json:"name" yaml:"name"`
	Emoji       string  `json:"emoji" yaml:"emoji"`
}

// String renders the tier as "emoji name".
func (t Tier) String() string {
	if t.Emoji == "" {
		return t.Name
	}
	return t.Emoji + " " + t.Name
}

var defaultTiers = []Tier{
	{ThresholdKg: 1, Name: "Planet Protector", Emoji: "🌍"},
	{ThresholdKg: 0.5, Name: "Carbon Hero", Emoji: "🦸‍♀️"},
	{ThresholdKg: 0.2, Name: "Tree Hugger", Emoji: "🌳"},
	{ThresholdKg: 0.1, Name: "Leaf Champion", Emoji: "🍃"},
	{ThresholdKg: 0.05, Name: "Eco Helper", Emoji: "🧤"},
	{ThresholdKg: 0.01, Name: "Starter Saver", Emoji: "🟢"},
}

// DefaultTiers returns a copy of the built-in tier table, highest threshold first.
func DefaultTiers() []Tier {
	return slices.Clone(defaultTiers)
}

// Table is an immutable tier list ordered by strictly descending threshold.
type Table struct {
	tiers []Tier
}

// Default returns the built-in table.
func Default() Table {
	return Table{tiers: DefaultTiers()}
}

// NewTable validates tiers and returns a table over a copy of them.
// Tiers must already be ordered highest threshold first.
func NewTable(tiers []Tier) (Table, error) {
	if len(tiers) == 0 {
		return Table{}, ErrInvalidTiers
	}
	for i, tier := range tiers {
		if tier.ThresholdKg <= 0 || strings.TrimSpace(tier.Name) == "" {
			return Table{}, fmt.Errorf("%w: tier %d (%q)", ErrInvalidTiers, i, tier.Name)
		}
		if i > 0 && tier.ThresholdKg >= tiers[i-1].ThresholdKg {
			return Table{}, fmt.Errorf("%w: %q at %v is not below %q at %v",
				ErrInvalidTiers, tier.Name, tier.ThresholdKg, tiers[i-1].Name, tiers[i-1].ThresholdKg)
		}
	}
	return Table{tiers: slices.Clone(tiers)}, nil
}

// Tiers returns a copy of the table, highest threshold first.
func (t Table) Tiers() []Tier {
	return slices.Clone(t.tiers)
}

// Resolve returns the tier with the highest threshold not above co2Kg.
// It reports false for non-positive savings or savings below every threshold.
// A zero Table resolves against the built-in tiers.
func (t Table) Resolve(co2Kg float64) (Tier, bool) {
	if co2Kg <= 0 {
		return Tier{}, false
	}
	for _, tier := range t.list() {
		if tier.ThresholdKg <= co2Kg {
			return tier, true
		}
	}
	return Tier{}, false
}

// Rank returns the tier's position counted from the lowest threshold (1 for the
// lowest tier). Unknown tiers rank 0, which is also the rank of "no badge".
func (t Table) Rank(tier Tier) int {
	list := t.list()
	for i, candidate := range list {
		if candidate == tier {
			return len(list) - i
		}
	}
	return 0
}

func (t Table) list() []Tier {
	if len(t.tiers) == 0 {
		return defaultTiers
	}
	return t.tiers
}
