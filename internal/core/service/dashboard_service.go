package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

const recentLeadLimit = 10

// DashboardService computes the analytics view-models: status breakdowns,
// conversion rates, location and monthly trends, and lead age buckets.
type DashboardService struct {
	leads      ports.LeadRepository
	biometrics ports.BiometricRepository
	logger     zerolog.Logger
}

func NewDashboardService(leads ports.LeadRepository, biometrics ports.BiometricRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{leads: leads, biometrics: biometrics, logger: logger}
}

// Metrics aggregates the scoped lead set. A total of zero yields zero
// rates, never a division error.
func (s *DashboardService) Metrics(ctx context.Context, scope ports.MetricsScope) (*ports.DashboardMetrics, error) {
	counts, err := s.leads.StatusCounts(ctx, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}

	statusCounts := ports.StatusCountSet{
		New:        counts[domain.LeadStatusNew],
		InProgress: counts[domain.LeadStatusInProgress],
		Approved:   counts[domain.LeadStatusApproved],
		Rejected:   counts[domain.LeadStatusRejected],
	}
	total := statusCounts.New + statusCounts.InProgress + statusCounts.Approved + statusCounts.Rejected

	var conversionRate, rejectionRate float64
	if total > 0 {
		conversionRate = round2(float64(statusCounts.Approved) / float64(total) * 100)
		rejectionRate = round2(float64(statusCounts.Rejected) / float64(total) * 100)
	}

	locations, err := s.leads.LocationBreakdown(ctx, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}

	trend, err := s.monthlyTrend(ctx, scope.UserID)
	if err != nil {
		return nil, err
	}

	ttc, err := s.timeToConversion(ctx, scope.UserID)
	if err != nil {
		return nil, err
	}

	ages, err := s.ageDistribution(ctx, scope.UserID)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.leads.List(ctx, ports.LeadFilter{
		UserID:   scope.UserID,
		SortBy:   "created_at",
		SortDesc: true,
		Page:     1,
		Limit:    recentLeadLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: recent leads: %w", err)
	}

	return &ports.DashboardMetrics{
		TotalLeads:       total,
		StatusCounts:     statusCounts,
		ConversionRate:   conversionRate,
		RejectionRate:    rejectionRate,
		LocationAnalysis: locations,
		MonthlyTrend:     trend,
		ConversionFunnel: []ports.FunnelStage{
			{Stage: "Total Leads", Count: total},
			{Stage: "New Leads", Count: statusCounts.New},
			{Stage: "In Progress", Count: statusCounts.InProgress},
			{Stage: "Approved", Count: statusCounts.Approved},
			{Stage: "Rejected", Count: statusCounts.Rejected},
		},
		TimeToConversion: ttc,
		AgeDistribution:  ages,
		RecentLeads:      recent,
	}, nil
}

// UserStats summarizes the caller's biometric activity: per-status counts
// plus the last 30 days of records.
func (s *DashboardService) UserStats(ctx context.Context, userID string) (*ports.UserStats, error) {
	counts, err := s.biometrics.StatusCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	recent, _, err := s.biometrics.List(ctx, ports.BiometricFilter{
		UserID:   userID,
		DateFrom: time.Now().UTC().AddDate(0, 0, -30),
		SortBy:   "created_at",
		SortDesc: true,
		Page:     1,
		Limit:    recentLeadLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("user stats: recent biometrics: %w", err)
	}

	return &ports.UserStats{
		BiometricCounts: map[string]int64{
			"total":    total,
			"pending":  counts[domain.BiometricStatusPending],
			"approved": counts[domain.BiometricStatusApproved],
			"rejected": counts[domain.BiometricStatusRejected],
		},
		RecentBiometrics: recent,
	}, nil
}

// monthlyTrend groups lead creation by month and status, keyed by the
// display month ("January 2006").
func (s *DashboardService) monthlyTrend(ctx context.Context, userID string) (map[string]map[string]int64, error) {
	rows, err := s.leads.MonthlyTrend(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: monthly trend: %w", err)
	}

	trend := make(map[string]map[string]int64, len(rows))
	for _, row := range rows {
		key := row.Month
		if t, err := time.Parse("2006-01", row.Month); err == nil {
			key = t.Format("January 2006")
		}
		if trend[key] == nil {
			trend[key] = map[string]int64{
				string(domain.LeadStatusNew):        0,
				string(domain.LeadStatusInProgress): 0,
				string(domain.LeadStatusApproved):   0,
				string(domain.LeadStatusRejected):   0,
			}
		}
		trend[key][string(row.Status)] = row.Count
	}
	return trend, nil
}

// timeToConversion reports the age in days of approved leads. The source
// measures age since creation, not time of approval; kept as-is.
func (s *DashboardService) timeToConversion(ctx context.Context, userID string) (ports.TimeToConversion, error) {
	approved, _, err := s.leads.List(ctx, ports.LeadFilter{
		UserID: userID,
		Status: string(domain.LeadStatusApproved),
	})
	if err != nil {
		return ports.TimeToConversion{}, fmt.Errorf("dashboard metrics: time to conversion: %w", err)
	}

	if len(approved) == 0 {
		return ports.TimeToConversion{Avg: "N/A", Min: "N/A", Max: "N/A"}, nil
	}

	now := time.Now().UTC()
	var sum, minDays, maxDays int64
	for i, lead := range approved {
		days := int64(now.Sub(lead.CreatedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		sum += days
		if i == 0 || days < minDays {
			minDays = days
		}
		if days > maxDays {
			maxDays = days
		}
	}

	return ports.TimeToConversion{
		Avg: fmt.Sprintf("%d days", sum/int64(len(approved))),
		Min: fmt.Sprintf("%d days", minDays),
		Max: fmt.Sprintf("%d days", maxDays),
	}, nil
}

// ageDistribution buckets leads into fixed age windows relative to now.
func (s *DashboardService) ageDistribution(ctx context.Context, userID string) (map[string]int64, error) {
	now := time.Now().UTC()
	d7 := now.AddDate(0, 0, -7)
	d30 := now.AddDate(0, 0, -30)
	d90 := now.AddDate(0, 0, -90)

	buckets := map[string]struct{ from, to time.Time }{
		"0-7 days":   {from: d7},
		"8-30 days":  {from: d30, to: d7},
		"31-90 days": {from: d90, to: d30},
		"90+ days":   {to: d90},
	}

	ages := make(map[string]int64, len(buckets))
	for label, window := range buckets {
		count, err := s.leads.CountCreatedBetween(ctx, userID, window.from, window.to)
		if err != nil {
			return nil, fmt.Errorf("dashboard metrics: age distribution: %w", err)
		}
		ages[label] = count
	}
	return ages, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
