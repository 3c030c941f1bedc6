package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

func newDashboardFixture() (*DashboardService, *stubLeadRepo, *stubBiometricRepo) {
	leads := newStubLeadRepo()
	biometrics := newStubBiometricRepo()
	svc := NewDashboardService(leads, biometrics, zerolog.Nop())
	return svc, leads, biometrics
}

func TestMetrics_EmptyDataset(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	m, err := svc.Metrics(context.Background(), ports.MetricsScope{})
	if err != nil {
		t.Fatalf("empty dataset must not error: %v", err)
	}
	if m.TotalLeads != 0 {
		t.Fatalf("expected total 0, got %d", m.TotalLeads)
	}
	if m.ConversionRate != 0 || m.RejectionRate != 0 {
		t.Fatalf("zero total must give zero rates, got %.2f / %.2f", m.ConversionRate, m.RejectionRate)
	}
	if m.TimeToConversion.Avg != "N/A" || m.TimeToConversion.Min != "N/A" || m.TimeToConversion.Max != "N/A" {
		t.Fatalf("no approved leads must yield N/A, got %+v", m.TimeToConversion)
	}
	if len(m.RecentLeads) != 0 {
		t.Fatalf("expected no recent leads")
	}
}

func TestMetrics_Rates(t *testing.T) {
	svc, leads, _ := newDashboardFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "l1", Status: domain.LeadStatusNew, Location: "Austin", CreatedAt: now})
	leads.add(&domain.Lead{ID: "l2", Status: domain.LeadStatusApproved, Location: "Austin", CreatedAt: now})
	leads.add(&domain.Lead{ID: "l3", Status: domain.LeadStatusRejected, Location: "Dallas", CreatedAt: now})

	m, err := svc.Metrics(context.Background(), ports.MetricsScope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TotalLeads != 3 {
		t.Fatalf("expected total 3, got %d", m.TotalLeads)
	}
	if m.ConversionRate != 33.33 {
		t.Fatalf("expected conversion 33.33, got %.2f", m.ConversionRate)
	}
	if m.RejectionRate != 33.33 {
		t.Fatalf("expected rejection 33.33, got %.2f", m.RejectionRate)
	}

	if len(m.LocationAnalysis) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(m.LocationAnalysis))
	}
	if m.LocationAnalysis[0].Location != "Austin" || m.LocationAnalysis[0].Total != 2 {
		t.Fatalf("locations must sort by volume, got %+v", m.LocationAnalysis[0])
	}
	if m.LocationAnalysis[0].Approved != 1 || m.LocationAnalysis[0].New != 1 {
		t.Fatalf("per-status location counts wrong: %+v", m.LocationAnalysis[0])
	}
}

func TestMetrics_Funnel(t *testing.T) {
	svc, leads, _ := newDashboardFixture()
	leads.add(&domain.Lead{ID: "l1", Status: domain.LeadStatusNew, CreatedAt: time.Now().UTC()})
	leads.add(&domain.Lead{ID: "l2", Status: domain.LeadStatusInProgress, CreatedAt: time.Now().UTC()})

	m, err := svc.Metrics(context.Background(), ports.MetricsScope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ports.FunnelStage{
		{Stage: "Total Leads", Count: 2},
		{Stage: "New Leads", Count: 1},
		{Stage: "In Progress", Count: 1},
		{Stage: "Approved", Count: 0},
		{Stage: "Rejected", Count: 0},
	}
	if len(m.ConversionFunnel) != len(want) {
		t.Fatalf("expected %d funnel stages, got %d", len(want), len(m.ConversionFunnel))
	}
	for i, stage := range want {
		if m.ConversionFunnel[i] != stage {
			t.Fatalf("stage %d: expected %+v, got %+v", i, stage, m.ConversionFunnel[i])
		}
	}
}

func TestMetrics_MonthlyTrendKeys(t *testing.T) {
	svc, leads, _ := newDashboardFixture()
	march := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	leads.add(&domain.Lead{ID: "l1", Status: domain.LeadStatusNew, CreatedAt: march})
	leads.add(&domain.Lead{ID: "l2", Status: domain.LeadStatusApproved, CreatedAt: march})

	m, err := svc.Metrics(context.Background(), ports.MetricsScope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	month, ok := m.MonthlyTrend["March 2026"]
	if !ok {
		t.Fatalf("expected display month key, got %v", m.MonthlyTrend)
	}
	if month["new"] != 1 || month["approved"] != 1 {
		t.Fatalf("unexpected month counts: %v", month)
	}
	// Absent statuses are present as zeroes.
	if _, ok := month["rejected"]; !ok {
		t.Fatalf("expected zero-filled statuses, got %v", month)
	}
}

func TestMetrics_AgeDistribution(t *testing.T) {
	svc, leads, _ := newDashboardFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "l1", Status: domain.LeadStatusNew, CreatedAt: now.AddDate(0, 0, -2)})
	leads.add(&domain.Lead{ID: "l2", Status: domain.LeadStatusNew, CreatedAt: now.AddDate(0, 0, -15)})
	leads.add(&domain.Lead{ID: "l3", Status: domain.LeadStatusNew, CreatedAt: now.AddDate(0, 0, -45)})
	leads.add(&domain.Lead{ID: "l4", Status: domain.LeadStatusNew, CreatedAt: now.AddDate(0, 0, -120)})

	m, err := svc.Metrics(context.Background(), ports.MetricsScope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]int64{
		"0-7 days":   1,
		"8-30 days":  1,
		"31-90 days": 1,
		"90+ days":   1,
	}
	for label, count := range want {
		if m.AgeDistribution[label] != count {
			t.Fatalf("bucket %q: expected %d, got %d", label, count, m.AgeDistribution[label])
		}
	}
}

func TestMetrics_TimeToConversion(t *testing.T) {
	svc, leads, _ := newDashboardFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "l1", Status: domain.LeadStatusApproved, CreatedAt: now.AddDate(0, 0, -2)})
	leads.add(&domain.Lead{ID: "l2", Status: domain.LeadStatusApproved, CreatedAt: now.AddDate(0, 0, -6)})
	leads.add(&domain.Lead{ID: "l3", Status: domain.LeadStatusNew, CreatedAt: now.AddDate(0, 0, -100)})

	m, err := svc.Metrics(context.Background(), ports.MetricsScope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TimeToConversion.Avg != "4 days" {
		t.Fatalf("expected avg 4 days, got %q", m.TimeToConversion.Avg)
	}
	if m.TimeToConversion.Min != "2 days" || m.TimeToConversion.Max != "6 days" {
		t.Fatalf("expected min 2 / max 6, got %+v", m.TimeToConversion)
	}
}

func TestMetrics_ScopedToUser(t *testing.T) {
	svc, leads, _ := newDashboardFixture()
	now := time.Now().UTC()
	leads.add(&domain.Lead{ID: "l1", UserID: "agent-1", Status: domain.LeadStatusApproved, CreatedAt: now})
	leads.add(&domain.Lead{ID: "l2", UserID: "agent-2", Status: domain.LeadStatusRejected, CreatedAt: now})

	m, err := svc.Metrics(context.Background(), ports.MetricsScope{UserID: "agent-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TotalLeads != 1 {
		t.Fatalf("scope must exclude other agents, got total %d", m.TotalLeads)
	}
	if m.ConversionRate != 100 {
		t.Fatalf("expected conversion 100, got %.2f", m.ConversionRate)
	}
}

func TestUserStats(t *testing.T) {
	svc, _, biometrics := newDashboardFixture()
	now := time.Now().UTC()
	biometrics.add(&domain.Biometric{ID: "b1", UserID: "agent-1", Status: domain.BiometricStatusPending, CreatedAt: now.AddDate(0, 0, -1)})
	biometrics.add(&domain.Biometric{ID: "b2", UserID: "agent-1", Status: domain.BiometricStatusApproved, CreatedAt: now.AddDate(0, 0, -60)})
	biometrics.add(&domain.Biometric{ID: "b3", UserID: "agent-2", Status: domain.BiometricStatusRejected, CreatedAt: now})

	stats, err := svc.UserStats(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.BiometricCounts["total"] != 2 {
		t.Fatalf("expected total 2, got %d", stats.BiometricCounts["total"])
	}
	if stats.BiometricCounts["pending"] != 1 || stats.BiometricCounts["approved"] != 1 || stats.BiometricCounts["rejected"] != 0 {
		t.Fatalf("unexpected per-status counts: %v", stats.BiometricCounts)
	}
	// The 60-day-old record falls outside the recent window.
	if len(stats.RecentBiometrics) != 1 || stats.RecentBiometrics[0].ID != "b1" {
		t.Fatalf("expected only b1 in recent, got %+v", stats.RecentBiometrics)
	}
}
