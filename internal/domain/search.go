package domain

// SearchContext carries the transient filter and booking-prefill inputs of a
// planner session. TravelDate and Guests are free-form strings — they prefill
// the booking form and are only parsed when a booking is actually submitted.
// The context is reset only by explicit user action, never implicitly.
type SearchContext struct {
	Term       string   `json:"term"`
	Category   Category `json:"category"`
	TravelDate string   `json:"travel_date,omitempty"`
	Guests     string   `json:"guests,omitempty"`
}

// NewSearchContext returns the initial search context: no term, category
// "All", no prefill.
func NewSearchContext() SearchContext {
	return SearchContext{Category: CategoryAll}
}
