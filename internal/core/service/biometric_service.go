package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

// biometricSortFields is the closed set of sortable columns for biometric
// listings.
var biometricSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"location":   true,
	"created_at": true,
	"status":     true,
}

// BiometricService implements read operations for biometrics. Approve and
// reject go through the TransitionService.
type BiometricService struct {
	biometrics ports.BiometricRepository
	logger     zerolog.Logger
}

func NewBiometricService(biometrics ports.BiometricRepository, logger zerolog.Logger) *BiometricService {
	return &BiometricService{biometrics: biometrics, logger: logger}
}

// Get retrieves one biometric. Agents only reach records they own; a record
// owned by someone else is reported as not found rather than forbidden, so
// record ids cannot be probed.
func (s *BiometricService) Get(ctx context.Context, id, actorID, actorRole string) (*domain.Biometric, error) {
	scope := actorID
	if actorRole == domain.RoleAdmin {
		scope = ""
	}

	b, err := s.biometrics.FindByID(ctx, id, scope)
	if err != nil {
		return nil, fmt.Errorf("get biometric: %w", err)
	}
	return b, nil
}

// List returns a page of biometrics scoped to the actor.
func (s *BiometricService) List(ctx context.Context, in ports.ListBiometricsInput) (*ports.BiometricList, error) {
	scope := in.ActorID
	if in.ActorRole == domain.RoleAdmin {
		scope = ""
	}

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
	if !biometricSortFields[sortBy] {
		sortBy = "created_at"
	}

	filter := ports.BiometricFilter{
		UserID:   scope,
		Status:   in.Status,
		Location: in.Location,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		SortBy:   sortBy,
		SortDesc: in.Order != "asc",
		Page:     page,
		Limit:    limit,
	}

	items, total, err := s.biometrics.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list biometrics: %w", err)
	}

	return &ports.BiometricList{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
