package ports

import (
	"context"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// MetricsScope restricts the queryset the dashboard aggregates over.
// An empty UserID covers all leads.
type MetricsScope struct {
	UserID string
}

// StatusCountSet holds per-status lead counts.
type StatusCountSet struct {
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Approved   int64 `json:"approved"`
	Rejected   int64 `json:"rejected"`
}

// FunnelStage is one step of the conversion funnel.
type FunnelStage struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

// TimeToConversion summarizes the age in days of approved leads.
// Values are "N/A" when no lead has been approved.
type TimeToConversion struct {
	Avg string `json:"avg_conversion_time"`
	Min string `json:"min_conversion_time"`
	Max string `json:"max_conversion_time"`
}

// DashboardMetrics is the full analytics view-model for the home dashboard.
type DashboardMetrics struct {
	TotalLeads     int64          `json:"total_leads"`
	StatusCounts   StatusCountSet `json:"status_counts"`
	ConversionRate float64        `json:"conversion_rate"`
	RejectionRate  float64        `json:"rejection_rate"`
	// LocationAnalysis is ordered by total count, descending.
	LocationAnalysis []LocationBucket `json:"location_analysis"`
	// MonthlyTrend maps a display month ("January 2006") to per-status counts.
	MonthlyTrend     map[string]map[string]int64 `json:"monthly_trend"`
	ConversionFunnel []FunnelStage               `json:"conversion_funnel"`
	TimeToConversion TimeToConversion            `json:"time_to_conversion"`
	// AgeDistribution buckets leads by age: 0-7, 8-30, 31-90 and 90+ days.
	AgeDistribution map[string]int64 `json:"lead_age_distribution"`
	RecentLeads     []*domain.Lead   `json:"recent_leads"`
}

// UserStats summarizes the caller's biometric activity.
type UserStats struct {
	BiometricCounts  map[string]int64    `json:"biometric_status_count"` // keys: total, pending, approved, rejected
	RecentBiometrics []*domain.Biometric `json:"recent_biometrics"`      // last 30 days, newest first, capped at 10
}

// DashboardService computes aggregate metrics for presentation.
type DashboardService interface {
	// Metrics never fails on an empty lead set: rates are 0, not an error.
	Metrics(ctx context.Context, scope MetricsScope) (*DashboardMetrics, error)
	UserStats(ctx context.Context, userID string) (*UserStats, error)
}
