// Package domain contains the core data types for the Wayfarer application.
// This package has zero external dependencies and is imported by every other
// internal package (catalog, app, repo, service, handler).
package domain

import "fmt"

// Category classifies a destination. The set is closed: every destination
// carries exactly one of the concrete categories, and two synthetic values
// ("All" and "Budget Friendly") exist only as filter inputs — no destination
// is ever stored with them.
type Category string

const (
	CategoryAll       Category = "All"
	CategoryBeach     Category = "Beach"
	CategoryMountain  Category = "Mountain"
	CategoryCity      Category = "City"
	CategoryAdventure Category = "Adventure"
	CategoryCultural  Category = "Cultural"

	// CategoryBudget is a derived filter (price at or below the budget
	// ceiling), not a stored attribute of any destination.
	CategoryBudget Category = "Budget Friendly"
)

// Categories returns the full closed set of filterable categories,
// synthetic values included, in display order.
func Categories() []Category {
	return []Category{
		CategoryAll,
		CategoryBeach,
		CategoryMountain,
		CategoryCity,
		CategoryAdventure,
		CategoryCultural,
		CategoryBudget,
	}
}

// ParseCategory converts a raw string to a Category, returning ErrValidation
// for values outside the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
}

// Concrete reports whether c is a category destinations are actually stored
// with, as opposed to the synthetic filter-only values.
func (c Category) Concrete() bool {
	switch c {
	case CategoryBeach, CategoryMountain, CategoryCity, CategoryAdventure, CategoryCultural:
		return true
	}
	return false
}

// ItineraryDay is one entry in a destination's suggested day-by-day plan.
type ItineraryDay struct {
	Day         int    `json:"day"`
	Description string `json:"description"`
}

// Destination is a curated travel location. Destinations are immutable and
// sourced from the static built-in catalog; they are never created or
// destroyed at runtime.
type Destination struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Location    string         `json:"location"`
	Image       string         `json:"image"`
	Description string         `json:"description"`
	Rating      float64        `json:"rating"`
	Price       int            `json:"price"`
	Category    Category       `json:"category"`
	Reviews     int            `json:"reviews"`
	BestTime    string         `json:"best_time,omitempty"`
	Itinerary   []ItineraryDay `json:"itinerary,omitempty"`
}
