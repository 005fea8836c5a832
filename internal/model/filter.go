package model

// FilterType narrows a filter to one article type. "all" disables the
// type predicate.
type FilterType string

const (
	FilterAll  FilterType = "all"
	FilterNews FilterType = "news"
	FilterBlog FilterType = "blog"
)

// FilterState is the transient per-session view filter. The zero value
// plus DefaultFilter's type is the all-pass filter; it is never persisted.
type FilterState struct {
	Author      string     `json:"author"`
	DateFrom    string     `json:"dateFrom"`
	DateTo      string     `json:"dateTo"`
	Type        FilterType `json:"type"`
	SearchQuery string     `json:"searchQuery"`
}

// DefaultFilter returns the all-pass filter.
func DefaultFilter() FilterState {
	return FilterState{Type: FilterAll}
}
