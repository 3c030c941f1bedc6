package ports

import (
	"context"
	"time"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// CreateLeadInput carries all data needed to create a new lead.
type CreateLeadInput struct {
	Name     string
	Email    string
	Phone    string
	Location string
	// ActorID is the authenticated user submitting the lead; it becomes
	// the lead's owner.
	ActorID string
}

// ListLeadsInput carries all parameters for the list endpoint.
type ListLeadsInput struct {
	UserID   string // non-empty = scoped to owner
	Status   string
	Location string
	DateFrom time.Time
	DateTo   time.Time
	SortBy   string
	Order    string // "asc" or "desc"
	Page     int
	Limit    int
}

// LeadList is a page of leads.
type LeadList struct {
	Items      []*domain.Lead
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// StatusBreakdownRow is a per-status count used by the history view.
type StatusBreakdownRow struct {
	Status domain.LeadStatus `json:"status"`
	Count  int64             `json:"count"`
}

// LeadHistory is the caller's own leads plus summary breakdowns.
type LeadHistory struct {
	Leads             *LeadList
	TotalLeads        int64
	ApprovedCount     int64
	RejectedCount     int64
	StatusBreakdown   []StatusBreakdownRow
	LocationBreakdown []LocationBucket
	UniqueLocations   []string
}

// LeadService defines use-case operations for leads.
type LeadService interface {
	Create(ctx context.Context, input CreateLeadInput) (*domain.Lead, error)
	// Get retrieves one lead and records the view.
	Get(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, input ListLeadsInput) (*LeadList, error)
	History(ctx context.Context, userID string, input ListLeadsInput) (*LeadHistory, error)
}
