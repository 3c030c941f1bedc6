package domain

import (
	"errors"
	"time"
)

// NotificationType classifies the event a notification reports.
type NotificationType string

const (
	NotificationLeadAssigned          NotificationType = "lead_assigned"
	NotificationLeadStatusChange      NotificationType = "lead_status_change"
	NotificationBiometricStatusChange NotificationType = "biometric_status_change"
	NotificationWeeklyReport          NotificationType = "weekly_report"
	NotificationSystemAlert           NotificationType = "system_alert"
)

// NotificationTypes lists every valid notification type.
var NotificationTypes = []NotificationType{
	NotificationLeadAssigned,
	NotificationLeadStatusChange,
	NotificationBiometricStatusChange,
	NotificationWeeklyReport,
	NotificationSystemAlert,
}

var ErrNotificationNotFound = errors.New("notification not found")

// Display returns the human-readable form of the type.
func (t NotificationType) Display() string {
	switch t {
	case NotificationLeadAssigned:
		return "Lead Assigned"
	case NotificationLeadStatusChange:
		return "Lead Status Changed"
	case NotificationBiometricStatusChange:
		return "Biometric Status Changed"
	case NotificationWeeklyReport:
		return "Weekly Report"
	case NotificationSystemAlert:
		return "System Alert"
	}
	return string(t)
}

// Notification is an in-app message owned by a single user. Read state is
// monotonic: false to true only, and notifications are never deleted.
type Notification struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	UserID      string           `json:"user_id" bson:"user_id"`
	Type        NotificationType `json:"type" bson:"type"`
	Message     string           `json:"message" bson:"message"`
	IsRead      bool             `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	LeadID      string           `json:"lead_id,omitempty" bson:"lead_id,omitempty"`
	BiometricID string           `json:"biometric_id,omitempty" bson:"biometric_id,omitempty"`
}
