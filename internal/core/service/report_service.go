package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

// ReportService builds on-demand weekly summaries. The notification is the
// primary record; email delivery is best effort.
type ReportService struct {
	dashboard ports.DashboardService
	users     ports.AuthRepository
	notifier  ports.NotificationService
	mailer    ports.MailSender
	logger    zerolog.Logger
}

func NewReportService(
	dashboard ports.DashboardService,
	users ports.AuthRepository,
	notifier ports.NotificationService,
	mailer ports.MailSender,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		dashboard: dashboard,
		users:     users,
		notifier:  notifier,
		mailer:    mailer,
		logger:    logger,
	}
}

// Weekly composes the user's dashboard summary, stores it as a
// weekly_report notification and emails it when the user has an address.
func (s *ReportService) Weekly(ctx context.Context, userID string) (*domain.Notification, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("weekly report: %w", err)
	}

	metrics, err := s.dashboard.Metrics(ctx, ports.MetricsScope{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("weekly report: %w", err)
	}

	message := fmt.Sprintf(
		"Weekly report: %d leads total — %d new, %d in progress, %d approved, %d rejected. Conversion rate %.2f%%, rejection rate %.2f%%.",
		metrics.TotalLeads,
		metrics.StatusCounts.New,
		metrics.StatusCounts.InProgress,
		metrics.StatusCounts.Approved,
		metrics.StatusCounts.Rejected,
		metrics.ConversionRate,
		metrics.RejectionRate,
	)

	notification, err := s.notifier.Notify(ctx, ports.NotifyInput{
		UserID:  userID,
		Type:    domain.NotificationWeeklyReport,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("weekly report: %w", err)
	}

	if s.mailer != nil && user.Email != "" {
		if err := s.mailer.Send(user.Email, "Your weekly lead report", message); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("weekly report email failed")
		}
	}

	s.logger.Info().Str("user_id", userID).Msg("weekly report generated")
	return notification, nil
}

// ContactService forwards contact-form submissions to the support inbox.
type ContactService struct {
	mailer       ports.MailSender
	supportEmail string
	logger       zerolog.Logger
}

func NewContactService(mailer ports.MailSender, supportEmail string, logger zerolog.Logger) *ContactService {
	return &ContactService{mailer: mailer, supportEmail: supportEmail, logger: logger}
}

func (s *ContactService) Send(ctx context.Context, in ports.ContactInput) error {
	subject := "Contact Form Submission: " + in.Subject
	body := fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", in.Name, in.Email, in.Message)

	if err := s.mailer.Send(s.supportEmail, subject, body); err != nil {
		s.logger.Error().Err(err).Str("from", in.Email).Msg("contact form email failed")
		return fmt.Errorf("contact form: %w", err)
	}

	s.logger.Info().Str("from", in.Email).Msg("contact form forwarded")
	return nil
}
