package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

func newSearchFixture() (*SearchService, *stubLeadRepo, *stubBiometricRepo, *stubNotificationRepo) {
	leads := newStubLeadRepo()
	biometrics := newStubBiometricRepo()
	notifications := newStubNotificationRepo()
	svc := NewSearchService(leads, biometrics, notifications, zerolog.Nop())
	return svc, leads, biometrics, notifications
}

func TestSearch_SingleLeadHit(t *testing.T) {
	svc, leads, biometrics, notifications := newSearchFixture()
	leads.add(&domain.Lead{
		ID: "lead-1", Name: "John Doe", Email: "john@example.com",
		Location: "Austin", Status: domain.LeadStatusNew,
		CreatedAt: time.Now().UTC(),
	})
	biometrics.add(&domain.Biometric{
		ID: "bio-1", Name: "Jane Smith", Location: "Dallas",
		UserID: "user-1", Status: domain.BiometricStatusPending,
		CreatedAt: time.Now().UTC(),
	})
	notifications.add(&domain.Notification{
		ID: "note-1", UserID: "user-1", Type: domain.NotificationSystemAlert,
		Message: "maintenance window", CreatedAt: time.Now().UTC(),
	})

	out, err := svc.Search(context.Background(), ports.SearchInput{Query: "John", UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("expected exactly one hit, got %d", len(out.Results))
	}
	hit := out.Results[0]
	if hit.Type != "Lead" || hit.ID != "lead-1" {
		t.Fatalf("expected the lead hit, got %+v", hit)
	}
	if hit.Status != "New" {
		t.Fatalf("status must use display form, got %q", hit.Status)
	}
	if hit.DetailURL != "/v1/leads/lead-1" {
		t.Fatalf("unexpected detail url %q", hit.DetailURL)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, leads, _, _ := newSearchFixture()
	leads.add(&domain.Lead{ID: "lead-1", Name: "John", Status: domain.LeadStatusNew})

	out, err := svc.Search(context.Background(), ports.SearchInput{Query: "   "})
	if err != nil {
		t.Fatalf("empty query must not error: %v", err)
	}
	if len(out.Results) != 0 || out.Total != 0 {
		t.Fatalf("empty query must return no results, got %+v", out)
	}
}

func TestSearch_UnknownModel(t *testing.T) {
	svc, _, _, _ := newSearchFixture()

	_, err := svc.Search(context.Background(), ports.SearchInput{Query: "x", Models: []string{"invoice"}})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestSearch_UnknownFilterField(t *testing.T) {
	svc, _, _, _ := newSearchFixture()

	_, err := svc.Search(context.Background(), ports.SearchInput{
		Query:   "x",
		Models:  []string{ports.SearchModelLead},
		Filters: map[string]string{"password": "hunter2"},
	})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestSearch_FilterScopedToModelSchema(t *testing.T) {
	svc, leads, _, notifications := newSearchFixture()
	leads.add(&domain.Lead{
		ID: "lead-1", Name: "report ready", Status: domain.LeadStatusApproved,
		CreatedAt: time.Now().UTC(),
	})
	leads.add(&domain.Lead{
		ID: "lead-2", Name: "report stale", Status: domain.LeadStatusNew,
		CreatedAt: time.Now().UTC(),
	})
	notifications.add(&domain.Notification{
		ID: "note-1", UserID: "user-1", Type: domain.NotificationWeeklyReport,
		Message: "weekly report", CreatedAt: time.Now().UTC(),
	})

	// "status" belongs to the lead schema only; the notification search must
	// still return its hit unfiltered.
	out, err := svc.Search(context.Background(), ports.SearchInput{
		Query:   "report",
		UserID:  "user-1",
		Filters: map[string]string{"status": "approved"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var leadHits, noteHits int
	for _, hit := range out.Results {
		switch hit.Type {
		case "Lead":
			leadHits++
			if hit.ID != "lead-1" {
				t.Fatalf("status filter must exclude lead-2, got %s", hit.ID)
			}
		case "Notification":
			noteHits++
		}
	}
	if leadHits != 1 || noteHits != 1 {
		t.Fatalf("expected 1 lead and 1 notification hit, got %d and %d", leadHits, noteHits)
	}
}

func TestSearch_MergedNewestFirst(t *testing.T) {
	svc, leads, biometrics, _ := newSearchFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "lead-old", Name: "acme old", Status: domain.LeadStatusNew, CreatedAt: now.Add(-2 * time.Hour)})
	biometrics.add(&domain.Biometric{ID: "bio-new", Name: "acme new", UserID: "user-1", Status: domain.BiometricStatusPending, CreatedAt: now})
	leads.add(&domain.Lead{ID: "lead-mid", Name: "acme mid", Status: domain.LeadStatusNew, CreatedAt: now.Add(-time.Hour)})

	out, err := svc.Search(context.Background(), ports.SearchInput{Query: "acme", UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Results) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(out.Results))
	}
	wantOrder := []string{"bio-new", "lead-mid", "lead-old"}
	for i, want := range wantOrder {
		if out.Results[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, out.Results[i].ID)
		}
	}
}

func TestSearch_Pagination(t *testing.T) {
	svc, leads, _, _ := newSearchFixture()
	now := time.Now().UTC()
	for i := 0; i < 15; i++ {
		leads.add(&domain.Lead{
			ID:        "lead-" + string(rune('a'+i)),
			Name:      "bulk lead",
			Status:    domain.LeadStatusNew,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	out, err := svc.Search(context.Background(), ports.SearchInput{Query: "bulk", Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 15 {
		t.Fatalf("expected total 15, got %d", out.Total)
	}
	if len(out.Results) != 5 {
		t.Fatalf("expected 5 results on page 2, got %d", len(out.Results))
	}
}

func TestFilterSuggestions(t *testing.T) {
	svc, leads, _, _ := newSearchFixture()
	leads.add(&domain.Lead{ID: "lead-1", Location: "Austin", Status: domain.LeadStatusNew})
	leads.add(&domain.Lead{ID: "lead-2", Location: "Dallas", Status: domain.LeadStatusNew})

	suggestions, err := svc.FilterSuggestions(context.Background(), []string{ports.SearchModelLead, ports.SearchModelNotification})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leadSuggestions, ok := suggestions[ports.SearchModelLead]
	if !ok {
		t.Fatalf("expected lead suggestions")
	}
	if len(leadSuggestions.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %v", leadSuggestions.Locations)
	}
	if leadSuggestions.StatusOptions["in_progress"] != "In Progress" {
		t.Fatalf("expected display labels in status options, got %v", leadSuggestions.StatusOptions)
	}

	noteSuggestions, ok := suggestions[ports.SearchModelNotification]
	if !ok {
		t.Fatalf("expected notification suggestions")
	}
	if len(noteSuggestions.TypeOptions) != len(domain.NotificationTypes) {
		t.Fatalf("expected all notification types, got %v", noteSuggestions.TypeOptions)
	}
}
