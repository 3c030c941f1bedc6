// Package metrics defines and registers all custom Prometheus metrics for
// the lead management API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leads"

// ── Lead metrics ──────────────────────────────────────────────────────────────

// LeadsCreatedTotal counts newly created leads.
var LeadsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of leads created.",
	},
)

// StatusTransitionsTotal counts completed status transitions.
// Labels:
//   - entity: "lead" or "biometric"
//   - status: the status written by the transition
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of status transitions applied, by entity and resulting status.",
	},
	[]string{"entity", "status"},
)

// BiometricsProcessedTotal counts biometric approve/reject decisions.
// Label:
//   - action: "approve" or "reject"
var BiometricsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "biometrics_processed_total",
		Help:      "Total number of biometric records processed, by action.",
	},
	[]string{"action"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsEmittedTotal counts notifications written to the store.
// Label:
//   - type: the notification type (e.g. "lead_status_change")
var NotificationsEmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_emitted_total",
		Help:      "Total number of notifications created, by type.",
	},
	[]string{"type"},
)

// DuplicateSubmissionsTotal counts status changes whose notification was
// suppressed by the duplicate guard.
var DuplicateSubmissionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_submissions_total",
		Help:      "Total number of duplicate status submissions detected.",
	},
)
