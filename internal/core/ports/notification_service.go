package ports

import (
	"context"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// NotifyInput carries all data needed to create a notification.
type NotifyInput struct {
	UserID      string
	Type        domain.NotificationType
	Message     string
	LeadID      string // optional back-reference
	BiometricID string // optional back-reference
}

// ListNotificationsInput carries the parameters for the list endpoint.
type ListNotificationsInput struct {
	UserID string
	Page   int
	Limit  int
	// Recent caps the page at the five newest notifications, matching the
	// header dropdown use case.
	Recent bool
}

// NotificationList is a page of notifications plus the counters every
// listing surface needs.
type NotificationList struct {
	Items       []*domain.Notification
	Total       int64
	UnreadCount int64
	Page        int
	Limit       int
}

// NotificationService creates and reads in-app notifications.
type NotificationService interface {
	Notify(ctx context.Context, input NotifyInput) (*domain.Notification, error)
	List(ctx context.Context, input ListNotificationsInput) (*NotificationList, error)
	// MarkRead flips one notification to read and returns the remaining
	// unread count. Already-read notifications are a no-op success.
	MarkRead(ctx context.Context, id, userID string) (int64, error)
	// MarkAllRead returns the number of notifications affected; a second
	// call affects zero.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}
