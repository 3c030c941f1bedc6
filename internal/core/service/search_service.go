package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

const (
	defaultSearchPageSize = 10
	maxSearchPageSize     = 50
)

// searchFilterSchema is the closed filter schema: only these field names are
// reachable per model, everything else is rejected. This replaces the
// source's dynamic dictionary-built queries.
var searchFilterSchema = map[string]map[string]bool{
	ports.SearchModelLead: {
		"name":     true,
		"email":    true,
		"phone":    true,
		"location": true,
		"status":   true,
	},
	ports.SearchModelBiometric: {
		"name":     true,
		"location": true,
		"status":   true,
	},
	ports.SearchModelNotification: {
		"type":    true,
		"is_read": true,
	},
}

// SearchService performs cross-entity keyword search and produces the
// filter suggestions used by the search sidebar.
type SearchService struct {
	leads         ports.LeadRepository
	biometrics    ports.BiometricRepository
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewSearchService(
	leads ports.LeadRepository,
	biometrics ports.BiometricRepository,
	notifications ports.NotificationRepository,
	logger zerolog.Logger,
) *SearchService {
	return &SearchService{
		leads:         leads,
		biometrics:    biometrics,
		notifications: notifications,
		logger:        logger,
	}
}

// Search matches the query case-insensitively against each model's text
// fields, merges the hits into one list tagged with the source type, and
// sorts by creation time descending. An empty query returns an empty
// result set, not an error.
func (s *SearchService) Search(ctx context.Context, in ports.SearchInput) (*ports.SearchOutput, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchPageSize
	}
	if limit > maxSearchPageSize {
		limit = maxSearchPageSize
	}

	query := strings.TrimSpace(in.Query)
	if query == "" {
		return &ports.SearchOutput{Results: []ports.SearchResult{}, Page: page, Limit: limit}, nil
	}

	models, err := resolveModels(in.Models)
	if err != nil {
		return nil, err
	}
	if err := validateFilters(in.Filters, models); err != nil {
		return nil, err
	}

	var results []ports.SearchResult
	for _, model := range models {
		hits, err := s.searchModel(ctx, model, query, in.Filters, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", model, err)
		}
		results = append(results, hits...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	total := int64(len(results))
	start := (page - 1) * limit
	if start > len(results) {
		start = len(results)
	}
	end := start + limit
	if end > len(results) {
		end = len(results)
	}

	return &ports.SearchOutput{
		Results: results[start:end],
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *SearchService) searchModel(ctx context.Context, model, query string, filters map[string]string, userID string) ([]ports.SearchResult, error) {
	scoped := subsetFilters(filters, searchFilterSchema[model])

	switch model {
	case ports.SearchModelLead:
		leads, err := s.leads.Search(ctx, query, scoped)
		if err != nil {
			return nil, err
		}
		results := make([]ports.SearchResult, 0, len(leads))
		for _, lead := range leads {
			results = append(results, ports.SearchResult{
				Type:      "Lead",
				ID:        lead.ID,
				Name:      lead.Name,
				Email:     lead.Email,
				Phone:     lead.Phone,
				Location:  lead.Location,
				Status:    lead.Status.Display(),
				CreatedAt: lead.CreatedAt,
				DetailURL: "/v1/leads/" + lead.ID,
			})
		}
		return results, nil

	case ports.SearchModelBiometric:
		biometrics, err := s.biometrics.Search(ctx, query, scoped)
		if err != nil {
			return nil, err
		}
		results := make([]ports.SearchResult, 0, len(biometrics))
		for _, b := range biometrics {
			results = append(results, ports.SearchResult{
				Type:      "Biometric",
				ID:        b.ID,
				Name:      b.Name,
				Location:  b.Location,
				Status:    b.Status.Display(),
				CreatedAt: b.CreatedAt,
				DetailURL: "/v1/biometrics/" + b.ID,
			})
		}
		return results, nil

	case ports.SearchModelNotification:
		notifications, err := s.notifications.Search(ctx, userID, query, scoped)
		if err != nil {
			return nil, err
		}
		results := make([]ports.SearchResult, 0, len(notifications))
		for _, n := range notifications {
			readState := "Unread"
			if n.IsRead {
				readState = "Read"
			}
			results = append(results, ports.SearchResult{
				Type:      "Notification",
				ID:        n.ID,
				Message:   n.Message,
				Status:    n.Type.Display(),
				ReadState: readState,
				CreatedAt: n.CreatedAt,
				DetailURL: "/v1/notifications",
			})
		}
		return results, nil
	}

	return nil, fmt.Errorf("model %q: %w", model, domain.ErrInvalidFilter)
}

// FilterSuggestions lists the sanctioned filter values per model, built
// from existing data.
func (s *SearchService) FilterSuggestions(ctx context.Context, models []string) (map[string]ports.ModelFilterSuggestions, error) {
	resolved, err := resolveModels(models)
	if err != nil {
		return nil, err
	}

	suggestions := make(map[string]ports.ModelFilterSuggestions, len(resolved))
	for _, model := range resolved {
		switch model {
		case ports.SearchModelLead:
			locations, err := s.leads.DistinctLocations(ctx, "")
			if err != nil {
				return nil, fmt.Errorf("lead filter suggestions: %w", err)
			}
			options := make(map[string]string, len(domain.LeadStatuses))
			for _, status := range domain.LeadStatuses {
				options[string(status)] = status.Display()
			}
			suggestions[model] = ports.ModelFilterSuggestions{StatusOptions: options, Locations: locations}

		case ports.SearchModelBiometric:
			locations, err := s.biometrics.DistinctLocations(ctx, "")
			if err != nil {
				return nil, fmt.Errorf("biometric filter suggestions: %w", err)
			}
			options := make(map[string]string, len(domain.BiometricStatuses))
			for _, status := range domain.BiometricStatuses {
				options[string(status)] = status.Display()
			}
			suggestions[model] = ports.ModelFilterSuggestions{StatusOptions: options, Locations: locations}

		case ports.SearchModelNotification:
			options := make(map[string]string, len(domain.NotificationTypes))
			for _, t := range domain.NotificationTypes {
				options[string(t)] = t.Display()
			}
			suggestions[model] = ports.ModelFilterSuggestions{TypeOptions: options}
		}
	}

	return suggestions, nil
}

// resolveModels expands an empty model filter to all three entity types and
// rejects unknown names.
func resolveModels(models []string) ([]string, error) {
	if len(models) == 0 {
		return []string{ports.SearchModelLead, ports.SearchModelBiometric, ports.SearchModelNotification}, nil
	}
	resolved := make([]string, 0, len(models))
	for _, model := range models {
		if _, ok := searchFilterSchema[model]; !ok {
			return nil, fmt.Errorf("model %q: %w", model, domain.ErrInvalidFilter)
		}
		resolved = append(resolved, model)
	}
	return resolved, nil
}

// validateFilters rejects any filter field outside the closed schema of the
// selected models.
func validateFilters(filters map[string]string, models []string) error {
	for field := range filters {
		allowed := false
		for _, model := range models {
			if searchFilterSchema[model][field] {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("field %q: %w", field, domain.ErrInvalidFilter)
		}
	}
	return nil
}

func subsetFilters(filters map[string]string, allowed map[string]bool) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	scoped := make(map[string]string)
	for field, value := range filters {
		if allowed[field] {
			scoped[field] = value
		}
	}
	return scoped
}
