package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

func newLeadFixture() (*LeadService, *stubLeadRepo, *stubNotificationRepo) {
	leads := newStubLeadRepo()
	notifRepo := newStubNotificationRepo()
	notifier := NewNotificationService(notifRepo, zerolog.Nop())
	svc := NewLeadService(leads, notifier, zerolog.Nop())
	return svc, leads, notifRepo
}

func TestCreateLead(t *testing.T) {
	svc, leads, notifRepo := newLeadFixture()

	lead, err := svc.Create(context.Background(), ports.CreateLeadInput{
		Name:     "Ana Ruiz",
		Email:    "ana@example.com",
		Phone:    "555-0100",
		Location: "Austin",
		ActorID:  "agent-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.ID == "" {
		t.Fatalf("lead must get an id")
	}
	if lead.Status != domain.LeadStatusNew {
		t.Fatalf("new leads must start in status new, got %s", lead.Status)
	}
	if lead.UserID != "agent-1" {
		t.Fatalf("lead must be owned by the actor, got %q", lead.UserID)
	}
	if _, ok := leads.byID[lead.ID]; !ok {
		t.Fatalf("lead not persisted")
	}

	assigned := notificationsOfType(notifRepo, domain.NotificationLeadAssigned)
	if len(assigned) != 1 {
		t.Fatalf("expected 1 lead_assigned notification, got %d", len(assigned))
	}
	if assigned[0].Message != "New lead assigned: Ana Ruiz" {
		t.Fatalf("unexpected message %q", assigned[0].Message)
	}
}

func TestCreateLead_NotificationFailureIsNonFatal(t *testing.T) {
	svc, _, notifRepo := newLeadFixture()
	notifRepo.createErr = errors.New("store down")

	lead, err := svc.Create(context.Background(), ports.CreateLeadInput{Name: "Ana", ActorID: "agent-1"})
	if err != nil {
		t.Fatalf("lead creation must survive a notification failure: %v", err)
	}
	if lead == nil || lead.ID == "" {
		t.Fatalf("expected created lead")
	}
}

func TestGetLead_RecordsView(t *testing.T) {
	svc, leads, _ := newLeadFixture()
	leads.add(&domain.Lead{ID: "lead-1", Name: "Ana", Status: domain.LeadStatusNew})

	lead, err := svc.Get(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", lead.ViewCount)
	}
	if leads.byID["lead-1"].ViewCount != 1 {
		t.Fatalf("view must be persisted")
	}

	_, err = svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestListLeads_DefaultsAndCaps(t *testing.T) {
	svc, leads, _ := newLeadFixture()
	now := time.Now().UTC()
	for i := 0; i < 25; i++ {
		leads.add(&domain.Lead{
			ID:        fmt.Sprintf("lead-%02d", i),
			Name:      fmt.Sprintf("Lead %02d", i),
			Status:    domain.LeadStatusNew,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	out, err := svc.List(context.Background(), ports.ListLeadsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Limit != defaultLeadPageSize || len(out.Items) != defaultLeadPageSize {
		t.Fatalf("expected default page size %d, got limit %d items %d", defaultLeadPageSize, out.Limit, len(out.Items))
	}
	if out.Total != 25 || out.TotalPages != 3 {
		t.Fatalf("expected total 25 over 3 pages, got %d over %d", out.Total, out.TotalPages)
	}
	// Newest first by default.
	if out.Items[0].ID != "lead-00" {
		t.Fatalf("expected newest lead first, got %s", out.Items[0].ID)
	}

	capped, err := svc.List(context.Background(), ports.ListLeadsInput{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capped.Limit != maxLeadPageSize {
		t.Fatalf("expected cap at %d, got %d", maxLeadPageSize, capped.Limit)
	}
}

func TestListLeads_UnknownSortFallsBack(t *testing.T) {
	svc, leads, _ := newLeadFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "old", Status: domain.LeadStatusNew, CreatedAt: now.Add(-time.Hour)})
	leads.add(&domain.Lead{ID: "new", Status: domain.LeadStatusNew, CreatedAt: now})

	out, err := svc.List(context.Background(), ports.ListLeadsInput{SortBy: "password_hash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Items[0].ID != "new" {
		t.Fatalf("unknown sort must fall back to created_at desc, got %s first", out.Items[0].ID)
	}
}

func TestListLeads_Filters(t *testing.T) {
	svc, leads, _ := newLeadFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "l1", UserID: "agent-1", Status: domain.LeadStatusApproved, Location: "Austin", CreatedAt: now})
	leads.add(&domain.Lead{ID: "l2", UserID: "agent-1", Status: domain.LeadStatusNew, Location: "Dallas", CreatedAt: now})
	leads.add(&domain.Lead{ID: "l3", UserID: "agent-2", Status: domain.LeadStatusApproved, Location: "Austin", CreatedAt: now})

	out, err := svc.List(context.Background(), ports.ListLeadsInput{
		UserID:   "agent-1",
		Status:   "approved",
		Location: "austin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != "l1" {
		t.Fatalf("expected only l1, got %+v", out.Items)
	}
}

func TestLeadHistory(t *testing.T) {
	svc, leads, _ := newLeadFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "l1", UserID: "agent-1", Status: domain.LeadStatusApproved, Location: "Austin", CreatedAt: now})
	leads.add(&domain.Lead{ID: "l2", UserID: "agent-1", Status: domain.LeadStatusApproved, Location: "Dallas", CreatedAt: now})
	leads.add(&domain.Lead{ID: "l3", UserID: "agent-1", Status: domain.LeadStatusRejected, Location: "Austin", CreatedAt: now})
	leads.add(&domain.Lead{ID: "l4", UserID: "agent-2", Status: domain.LeadStatusNew, Location: "Waco", CreatedAt: now})

	history, err := svc.History(context.Background(), "agent-1", ports.ListLeadsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.TotalLeads != 3 {
		t.Fatalf("expected 3 owned leads, got %d", history.TotalLeads)
	}
	if history.ApprovedCount != 2 || history.RejectedCount != 1 {
		t.Fatalf("unexpected counts: %+v", history)
	}
	if len(history.StatusBreakdown) == 0 || history.StatusBreakdown[0].Status != domain.LeadStatusApproved {
		t.Fatalf("breakdown must sort by count desc, got %+v", history.StatusBreakdown)
	}
	if len(history.UniqueLocations) != 2 {
		t.Fatalf("expected 2 unique locations, got %v", history.UniqueLocations)
	}
	for _, lead := range history.Leads.Items {
		if lead.UserID != "agent-1" {
			t.Fatalf("history leaked a foreign lead: %+v", lead)
		}
	}
}
