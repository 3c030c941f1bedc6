package ports

import (
	"context"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
// Notifications are append-and-flag only: no updates besides the read flag,
// and no deletes.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListByUser returns a page of the user's notifications, newest first,
	// plus the total count.
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Notification, int64, error)
	// MarkRead flips is_read to true for the given notification when it
	// belongs to userID. Returns domain.ErrNotificationNotFound when no
	// such notification exists for that user. Marking an already-read
	// notification is a no-op success.
	MarkRead(ctx context.Context, id string, userID string) error
	// MarkAllRead flips every unread notification for the user and returns
	// the number of records affected.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	// CountUnread reads the unread total directly from the store.
	CountUnread(ctx context.Context, userID string) (int64, error)
	// Search performs a case-insensitive substring match of query against
	// message and type over the user's notifications.
	Search(ctx context.Context, userID, query string, filters map[string]string) ([]*domain.Notification, error)
}
