package ports

import (
	"context"
	"time"
)

// Searchable model names accepted by the search layer.
const (
	SearchModelLead         = "lead"
	SearchModelBiometric    = "biometric"
	SearchModelNotification = "notification"
)

// SearchInput carries one search request. An empty Models slice searches
// all three entity types. Filters are exact-match narrowing constraints
// validated against a closed per-model schema.
type SearchInput struct {
	Query   string
	Models  []string
	Filters map[string]string
	// UserID scopes notification matches to the caller.
	UserID string
	Page   int
	Limit  int
}

// SearchResult is one merged search hit, tagged with its source type and a
// navigable detail reference.
type SearchResult struct {
	Type      string    `json:"type"` // "Lead", "Biometric" or "Notification"
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	Status    string    `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
	ReadState string    `json:"read_state,omitempty"` // "Read" or "Unread"
	CreatedAt time.Time `json:"created_at"`
	DetailURL string    `json:"detail_url"`
}

// SearchOutput is a page of merged results sorted by creation time,
// newest first.
type SearchOutput struct {
	Results []SearchResult
	Total   int64
	Page    int
	Limit   int
}

// ModelFilterSuggestions holds the sanctioned filter values for one model.
type ModelFilterSuggestions struct {
	StatusOptions map[string]string `json:"status_options,omitempty"`
	TypeOptions   map[string]string `json:"type_options,omitempty"`
	Locations     []string          `json:"locations,omitempty"`
}

// SearchService performs cross-entity keyword search.
type SearchService interface {
	// Search returns an empty result set, not an error, when the query is
	// empty. Unknown model names or filter fields fail with
	// domain.ErrInvalidFilter.
	Search(ctx context.Context, input SearchInput) (*SearchOutput, error)
	// FilterSuggestions lists the allowed filter options per model, built
	// from existing data. An empty models slice covers all three.
	FilterSuggestions(ctx context.Context, models []string) (map[string]ModelFilterSuggestions, error)
}
