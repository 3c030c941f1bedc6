package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biometricleads/leads-system/internal/api/metrics"
	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

// DuplicateGuard abstracts the duplicate-submission store (Redis). Update
// endpoints accept form re-submissions, so identical status changes arriving
// within the guard window emit a single notification.
type DuplicateGuard interface {
	Seen(ctx context.Context, entity, id, status string) (bool, error)
	Mark(ctx context.Context, entity, id, status string) error
}

// TransitionService is the status transition engine. Every status change
// runs the full chain explicitly: persist the status, keep the lead and its
// biometric synchronized, and emit a notification — all inside one storage
// transaction.
type TransitionService struct {
	leads          ports.LeadRepository
	biometrics     ports.BiometricRepository
	notifier       ports.NotificationService
	tx             ports.TxRunner
	guard          DuplicateGuard
	defaultOwnerID string
	logger         zerolog.Logger
}

func NewTransitionService(
	leads ports.LeadRepository,
	biometrics ports.BiometricRepository,
	notifier ports.NotificationService,
	tx ports.TxRunner,
	guard DuplicateGuard,
	defaultOwnerID string,
	logger zerolog.Logger,
) *TransitionService {
	return &TransitionService{
		leads:          leads,
		biometrics:     biometrics,
		notifier:       notifier,
		tx:             tx,
		guard:          guard,
		defaultOwnerID: defaultOwnerID,
		logger:         logger,
	}
}

// SetLeadStatus validates newStatus against the enumeration and persists it.
// Any enumerated value may follow any other; membership is the only rule.
// Transitioning into approved upserts the lead's biometric: created as
// pending when absent, reset to pending when present. Re-approval resets
// verification rather than preserving a prior approval.
func (s *TransitionService) SetLeadStatus(ctx context.Context, leadID, newStatus, actorID string) (*domain.Lead, error) {
	status := domain.LeadStatus(newStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("set lead status %q: %w", newStatus, domain.ErrInvalidStatus)
	}

	lead, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("set lead status: %w", err)
	}

	// Owner fallback is explicit: lead owner, then the acting user, then
	// the configured default. Never an arbitrary row.
	owner := lead.UserID
	if owner == "" {
		owner = actorID
	}
	if owner == "" {
		owner = s.defaultOwnerID
	}

	emit := s.shouldNotify(ctx, "lead", leadID, string(status))

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.leads.UpdateStatus(ctx, leadID, status); err != nil {
			return fmt.Errorf("update lead status: %w", err)
		}
		if status == domain.LeadStatusApproved {
			if err := s.upsertBiometric(ctx, lead, owner); err != nil {
				return err
			}
		}
		if emit && owner != "" {
			_, err := s.notifier.Notify(ctx, ports.NotifyInput{
				UserID:  owner,
				Type:    domain.NotificationLeadStatusChange,
				Message: "Lead status changed to " + status.Display(),
				LeadID:  leadID,
			})
			if err != nil {
				return fmt.Errorf("notify lead status change: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("lead_id", leadID).
			Str("actor_id", actorID).
			Str("status", newStatus).
			Msg("lead status update failed")
		return nil, err
	}

	if emit {
		s.markNotified(ctx, "lead", leadID, string(status))
	}

	lead.Status = status
	lead.InteractionScore++
	metrics.StatusTransitionsTotal.WithLabelValues("lead", string(status)).Inc()

	s.logger.Info().
		Str("lead_id", leadID).
		Str("actor_id", actorID).
		Str("status", newStatus).
		Msg("lead status updated")

	return lead, nil
}

// upsertBiometric keeps the approved-lead invariant: exactly one biometric
// per approved lead, in pending state. Status timestamps stay untouched —
// they are first-write-wins.
func (s *TransitionService) upsertBiometric(ctx context.Context, lead *domain.Lead, owner string) error {
	existing, err := s.biometrics.FindByLeadID(ctx, lead.ID)
	switch {
	case err == nil:
		existing.Status = domain.BiometricStatusPending
		if err := s.biometrics.Update(ctx, existing); err != nil {
			return fmt.Errorf("reset biometric: %w", err)
		}
		return nil
	case errors.Is(err, domain.ErrBiometricNotFound):
		b := &domain.Biometric{
			ID:        uuid.NewString(),
			LeadID:    lead.ID,
			UserID:    owner,
			Name:      lead.Name,
			Location:  lead.Location,
			Status:    domain.BiometricStatusPending,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.biometrics.Create(ctx, b); err != nil {
			return fmt.Errorf("create biometric: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find biometric for lead: %w", err)
	}
}

// ProcessBiometric applies an approve/reject action to a biometric. Agents
// only reach records they own; admins are unscoped. The outcome propagates
// to the associated lead so the two statuses stay synchronized.
func (s *TransitionService) ProcessBiometric(ctx context.Context, in ports.ProcessBiometricInput) (*domain.Biometric, error) {
	if in.Action != domain.ActionApprove && in.Action != domain.ActionReject {
		return nil, fmt.Errorf("process biometric action %q: %w", in.Action, domain.ErrInvalidStatus)
	}

	scope := in.ActorID
	if in.ActorRole == domain.RoleAdmin {
		scope = ""
	}

	b, err := s.biometrics.FindByID(ctx, in.BiometricID, scope)
	if err != nil {
		return nil, fmt.Errorf("process biometric: %w", err)
	}

	now := time.Now().UTC()
	if in.Action == domain.ActionApprove {
		b.Status = domain.BiometricStatusApproved
		if b.ApprovedAt == nil && b.RejectedAt == nil {
			b.ApprovedAt = &now
		}
	} else {
		b.Status = domain.BiometricStatusRejected
		if b.RejectedAt == nil && b.ApprovedAt == nil {
			b.RejectedAt = &now
		}
		b.RejectionReason = in.RejectionReason
	}

	emit := s.shouldNotify(ctx, "biometric", b.ID, string(b.Status))

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.biometrics.Update(ctx, b); err != nil {
			return fmt.Errorf("update biometric: %w", err)
		}
		if b.LeadID != "" {
			leadStatus := domain.LeadStatusRejected
			if in.Action == domain.ActionApprove {
				leadStatus = domain.LeadStatusApproved
			}
			if err := s.leads.UpdateStatus(ctx, b.LeadID, leadStatus); err != nil {
				return fmt.Errorf("sync lead status: %w", err)
			}
		}
		if emit {
			_, err := s.notifier.Notify(ctx, ports.NotifyInput{
				UserID:      b.UserID,
				Type:        domain.NotificationBiometricStatusChange,
				Message:     "Biometric status changed to " + b.Status.Display(),
				LeadID:      b.LeadID,
				BiometricID: b.ID,
			})
			if err != nil {
				return fmt.Errorf("notify biometric status change: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("biometric_id", in.BiometricID).
			Str("actor_id", in.ActorID).
			Str("action", in.Action).
			Msg("biometric processing failed")
		return nil, err
	}

	if emit {
		s.markNotified(ctx, "biometric", b.ID, string(b.Status))
	}

	metrics.BiometricsProcessedTotal.WithLabelValues(in.Action).Inc()
	metrics.StatusTransitionsTotal.WithLabelValues("biometric", string(b.Status)).Inc()

	s.logger.Info().
		Str("biometric_id", b.ID).
		Str("actor_id", in.ActorID).
		Str("action", in.Action).
		Msg("biometric processed")

	return b, nil
}

// shouldNotify asks the duplicate guard whether this exact change was just
// notified. Guard failures never block the primary operation.
func (s *TransitionService) shouldNotify(ctx context.Context, entity, id, status string) bool {
	if s.guard == nil {
		return true
	}
	seen, err := s.guard.Seen(ctx, entity, id, status)
	if err != nil {
		s.logger.Warn().Err(err).Str("entity", entity).Str("id", id).Msg("duplicate guard check failed, notifying anyway")
		return true
	}
	if seen {
		metrics.DuplicateSubmissionsTotal.Inc()
		s.logger.Debug().Str("entity", entity).Str("id", id).Str("status", status).Msg("duplicate status change, notification suppressed")
	}
	return !seen
}

func (s *TransitionService) markNotified(ctx context.Context, entity, id, status string) {
	if s.guard == nil {
		return
	}
	if err := s.guard.Mark(ctx, entity, id, status); err != nil {
		s.logger.Warn().Err(err).Str("entity", entity).Str("id", id).Msg("failed to set duplicate guard key")
	}
}
