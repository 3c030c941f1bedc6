package ports

import (
	"context"
	"time"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// LeadFilter carries all query parameters for listing leads.
type LeadFilter struct {
	UserID   string    // non-empty = scoped to owner
	Status   string    // optional: filter by lead status
	Location string    // optional: exact location match
	DateFrom time.Time // optional: created_at >= DateFrom
	DateTo   time.Time // optional: created_at <= DateTo
	SortBy   string    // one of: id, name, location, created_at, email
	SortDesc bool
	Page     int // 1-based
	Limit    int // rows per page; <= 0 disables pagination
}

// LocationBucket is one row of the per-location breakdown, with
// per-status sub-counts.
type LocationBucket struct {
	Location   string `json:"location"`
	Total      int64  `json:"total_count"`
	New        int64  `json:"new_count"`
	InProgress int64  `json:"in_progress_count"`
	Approved   int64  `json:"approved_count"`
	Rejected   int64  `json:"rejected_count"`
}

// MonthlyCount is one row of the month-of-creation x status trend.
// Month is formatted as "2006-01".
type MonthlyCount struct {
	Month  string
	Status domain.LeadStatus
	Count  int64
}

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	FindByID(ctx context.Context, id string) (*domain.Lead, error)
	// UpdateStatus persists the new status and bumps the lead's
	// interaction score.
	UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error
	IncrementViewCount(ctx context.Context, id string) error
	// List returns a page of leads matching filter and the total count.
	List(ctx context.Context, filter LeadFilter) ([]*domain.Lead, int64, error)
	// Search performs a case-insensitive substring match of query against
	// name, email, phone and location, narrowed by exact-match filters.
	// Filter keys must already be validated against the closed schema.
	Search(ctx context.Context, query string, filters map[string]string) ([]*domain.Lead, error)
	StatusCounts(ctx context.Context, userID string) (map[domain.LeadStatus]int64, error)
	LocationBreakdown(ctx context.Context, userID string) ([]LocationBucket, error)
	MonthlyTrend(ctx context.Context, userID string) ([]MonthlyCount, error)
	// CountCreatedBetween counts leads with from <= created_at < to.
	// A zero from or to leaves that bound open.
	CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int64, error)
	DistinctLocations(ctx context.Context, userID string) ([]string, error)
}
