package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/api/metrics"
	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

const (
	defaultNotificationPageSize = 20
	recentNotificationLimit     = 5
	maxNotificationPageSize     = 50
)

// NotificationService creates and reads in-app notifications. Unread counts
// are always read from the store — there is no cache to drift.
type NotificationService struct {
	repo   ports.NotificationRepository
	logger zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Notify creates an unread notification for the user.
func (s *NotificationService) Notify(ctx context.Context, in ports.NotifyInput) (*domain.Notification, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("notify: missing user")
	}

	n := &domain.Notification{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Type:        in.Type,
		Message:     in.Message,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
		LeadID:      in.LeadID,
		BiometricID: in.BiometricID,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	metrics.NotificationsEmittedTotal.WithLabelValues(string(in.Type)).Inc()

	s.logger.Info().
		Str("user_id", in.UserID).
		Str("type", string(in.Type)).
		Str("notification_id", n.ID).
		Msg("notification created")

	return n, nil
}

// List returns a page of the user's notifications, newest first, along with
// total and unread counters. Recent mode caps the page at the five newest.
func (s *NotificationService) List(ctx context.Context, in ports.ListNotificationsInput) (*ports.NotificationList, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultNotificationPageSize
	}
	if limit > maxNotificationPageSize {
		limit = maxNotificationPageSize
	}
	if in.Recent {
		page = 1
		limit = recentNotificationLimit
	}

	items, total, err := s.repo.ListByUser(ctx, in.UserID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	unread, err := s.repo.CountUnread(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	return &ports.NotificationList{
		Items:       items,
		Total:       total,
		UnreadCount: unread,
		Page:        page,
		Limit:       limit,
	}, nil
}

// MarkRead flips one notification to read and returns the remaining unread
// count. Marking an already-read notification succeeds without effect.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (int64, error) {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("notification_id", id).Msg("notification marked read")

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return unread, nil
}

// MarkAllRead flips every unread notification for the user in one bulk
// operation and returns the number affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Int64("affected", affected).Msg("all notifications marked read")
	return affected, nil
}

// UnreadCount reads the unread total directly from the store on each call.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return unread, nil
}
