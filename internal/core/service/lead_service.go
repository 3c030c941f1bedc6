package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/api/metrics"
	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

const (
	defaultLeadPageSize = 10
	maxLeadPageSize     = 50
)

// leadSortFields is the closed set of sortable columns for lead listings.
var leadSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"location":   true,
	"created_at": true,
	"email":      true,
}

// LeadService implements lead creation and read operations. Status changes
// go through the TransitionService.
type LeadService struct {
	leads    ports.LeadRepository
	notifier ports.NotificationService
	logger   zerolog.Logger
}

func NewLeadService(leads ports.LeadRepository, notifier ports.NotificationService, logger zerolog.Logger) *LeadService {
	return &LeadService{leads: leads, notifier: notifier, logger: logger}
}

// Create persists a new lead owned by the acting user and raises a
// lead_assigned notification. The lead always starts in status new.
func (s *LeadService) Create(ctx context.Context, in ports.CreateLeadInput) (*domain.Lead, error) {
	lead := &domain.Lead{
		ID:        uuid.NewString(),
		UserID:    in.ActorID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Location:  in.Location,
		Status:    domain.LeadStatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		s.logger.Error().Err(err).Str("actor_id", in.ActorID).Msg("failed to create lead")
		return nil, fmt.Errorf("create lead: %w", err)
	}
	metrics.LeadsCreatedTotal.Inc()

	if in.ActorID != "" {
		_, err := s.notifier.Notify(ctx, ports.NotifyInput{
			UserID:  in.ActorID,
			Type:    domain.NotificationLeadAssigned,
			Message: "New lead assigned: " + lead.Name,
			LeadID:  lead.ID,
		})
		if err != nil {
			// The lead is already persisted; a missing notification is
			// recoverable, losing the lead is not.
			s.logger.Warn().Err(err).Str("lead_id", lead.ID).Msg("failed to create lead_assigned notification")
		}
	}

	s.logger.Info().Str("lead_id", lead.ID).Str("actor_id", in.ActorID).Msg("lead created")
	return lead, nil
}

// Get retrieves one lead and records the view.
func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}

	if err := s.leads.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("lead_id", id).Msg("failed to record lead view")
	} else {
		lead.ViewCount++
	}

	return lead, nil
}

// List returns a page of leads. Page size defaults to 10 and is capped at
// 50; unknown sort columns fall back to created_at descending.
func (s *LeadService) List(ctx context.Context, in ports.ListLeadsInput) (*ports.LeadList, error) {
	filter := s.buildFilter(in)

	items, total, err := s.leads.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	return &ports.LeadList{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// History returns the caller's own leads plus status and location
// breakdowns over that scope.
func (s *LeadService) History(ctx context.Context, userID string, in ports.ListLeadsInput) (*ports.LeadHistory, error) {
	in.UserID = userID
	list, err := s.List(ctx, in)
	if err != nil {
		return nil, err
	}

	counts, err := s.leads.StatusCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lead history: %w", err)
	}

	var total int64
	breakdown := make([]ports.StatusBreakdownRow, 0, len(counts))
	for status, count := range counts {
		total += count
		breakdown = append(breakdown, ports.StatusBreakdownRow{Status: status, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Count > breakdown[j].Count })

	locations, err := s.leads.LocationBreakdown(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lead history: %w", err)
	}

	distinct, err := s.leads.DistinctLocations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lead history: %w", err)
	}

	return &ports.LeadHistory{
		Leads:             list,
		TotalLeads:        total,
		ApprovedCount:     counts[domain.LeadStatusApproved],
		RejectedCount:     counts[domain.LeadStatusRejected],
		StatusBreakdown:   breakdown,
		LocationBreakdown: locations,
		UniqueLocations:   distinct,
	}, nil
}

func (s *LeadService) buildFilter(in ports.ListLeadsInput) ports.LeadFilter {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultLeadPageSize
	}
	if limit > maxLeadPageSize {
		limit = maxLeadPageSize
	}
	sortBy := in.SortBy
	if !leadSortFields[sortBy] {
		sortBy = "created_at"
	}
	// Newest first unless ascending is requested explicitly.
	sortDesc := in.Order != "asc"

	return ports.LeadFilter{
		UserID:   in.UserID,
		Status:   in.Status,
		Location: in.Location,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		SortBy:   sortBy,
		SortDesc: sortDesc,
		Page:     page,
		Limit:    limit,
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}
