// Package catalog holds the static, curated destination list and the pure
// filter applied to it. The list is embedded at compile time — destinations
// are never created or destroyed at runtime, so there is no repo behind them.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// BudgetPriceCeiling is the price threshold (inclusive) for the synthetic
// "Budget Friendly" category.
const BudgetPriceCeiling = 1500

//go:embed destinations.json
var rawDestinations []byte

// Load parses and validates the embedded destination list.
// Embedding means the catalog and the running code are always in sync.
func Load() ([]domain.Destination, error) {
	var list []domain.Destination
	if err := json.Unmarshal(rawDestinations, &list); err != nil {
		return nil, fmt.Errorf("catalog.Load: parse: %w", err)
	}

	seen := make(map[string]bool, len(list))
	for _, d := range list {
		if d.ID == "" || d.Name == "" || d.Location == "" {
			return nil, fmt.Errorf("catalog.Load: destination %q missing required fields", d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("catalog.Load: duplicate destination id %q", d.ID)
		}
		seen[d.ID] = true
		if !d.Category.Concrete() {
			return nil, fmt.Errorf("catalog.Load: destination %q has non-concrete category %q", d.ID, d.Category)
		}
		if d.Price <= 0 {
			return nil, fmt.Errorf("catalog.Load: destination %q has non-positive price", d.ID)
		}
	}
	return list, nil
}

// ByID returns the destination with the given ID from list, or
// domain.ErrNotFound.
func ByID(list []domain.Destination, id string) (domain.Destination, error) {
	for _, d := range list {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Destination{}, fmt.Errorf("catalog.ByID: %q: %w", id, domain.ErrNotFound)
}

// Filter returns the ordered sub-sequence of list matching both the category
// and the free-text term. It is pure and deterministic: no side effects, same
// inputs always yield the same output, and input order is preserved.
//
// Category matching: exact match, or "All" (matches everything), or
// "Budget Friendly" (price at or below BudgetPriceCeiling, regardless of the
// destination's own category). Text matching: case-insensitive substring of
// name or location; the empty term matches everything.
func Filter(list []domain.Destination, term string, category domain.Category) []domain.Destination {
	needle := strings.ToLower(strings.TrimSpace(term))

	out := make([]domain.Destination, 0, len(list))
	for _, d := range list {
		if !matchCategory(d, category) {
			continue
		}
		if needle != "" && !matchTerm(d, needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matchCategory(d domain.Destination, category domain.Category) bool {
	switch category {
	case domain.CategoryAll, "":
		return true
	case domain.CategoryBudget:
		return d.Price <= BudgetPriceCeiling
	default:
		return d.Category == category
	}
}

func matchTerm(d domain.Destination, needle string) bool {
	return strings.Contains(strings.ToLower(d.Name), needle) ||
		strings.Contains(strings.ToLower(d.Location), needle)
}
