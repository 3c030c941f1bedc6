package ports

import (
	"context"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// MailSender delivers a single plain-text email.
type MailSender interface {
	Send(to, subject, body string) error
}

// ContactInput is a contact-form submission forwarded to the support inbox.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ReportService produces on-demand summary reports.
type ReportService interface {
	// Weekly composes the recipient's dashboard summary, stores it as a
	// weekly_report notification and emails it. Email delivery failure is
	// logged, not returned: the notification is the primary record.
	Weekly(ctx context.Context, userID string) (*domain.Notification, error)
}

// ContactService forwards contact-form submissions by email.
type ContactService interface {
	Send(ctx context.Context, input ContactInput) error
}
