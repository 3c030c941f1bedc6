package ports

import (
	"context"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// ProcessBiometricInput carries the parameters of an approve/reject action.
type ProcessBiometricInput struct {
	BiometricID     string
	Action          string // domain.ActionApprove or domain.ActionReject
	RejectionReason string // stored on reject; empty string allowed
	ActorID         string
	ActorRole       string // admins may process records they do not own
}

// TransitionService is the status transition engine: it validates status
// changes, keeps leads and biometrics synchronized, and emits notifications
// for every state change.
type TransitionService interface {
	// SetLeadStatus persists newStatus on the lead. A status outside the
	// enumeration fails with domain.ErrInvalidStatus. Transitioning into
	// approved upserts the lead's biometric back to pending, idempotently.
	SetLeadStatus(ctx context.Context, leadID, newStatus, actorID string) (*domain.Lead, error)
	// ProcessBiometric applies an approve/reject action, stamps the
	// first-transition timestamp, and propagates the outcome to the
	// associated lead.
	ProcessBiometric(ctx context.Context, input ProcessBiometricInput) (*domain.Biometric, error)
}
