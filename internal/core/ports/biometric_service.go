package ports

import (
	"context"
	"time"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// ListBiometricsInput carries all parameters for the biometric list endpoint.
type ListBiometricsInput struct {
	// ActorID/ActorRole enforce ownership: agents only see their own
	// records, admins see everything.
	ActorID   string
	ActorRole string
	Status    string
	Location  string
	DateFrom  time.Time
	DateTo    time.Time
	SortBy    string
	Order     string
	Page      int
	Limit     int
}

// BiometricList is a page of biometrics.
type BiometricList struct {
	Items      []*domain.Biometric
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BiometricService defines read operations for biometrics. Mutations go
// through the TransitionService.
type BiometricService interface {
	Get(ctx context.Context, id, actorID, actorRole string) (*domain.Biometric, error)
	List(ctx context.Context, input ListBiometricsInput) (*BiometricList, error)
}
