package ports

import (
	"context"
	"time"

	"github.com/biometricleads/leads-system/internal/core/domain"
)

// BiometricFilter carries all query parameters for listing biometrics.
type BiometricFilter struct {
	UserID   string    // non-empty = scoped to owner
	Status   string    // optional: filter by biometric status
	Location string    // optional: exact location match
	DateFrom time.Time // optional: created_at >= DateFrom
	DateTo   time.Time // optional: created_at <= DateTo
	SortBy   string    // one of: id, name, location, created_at, status
	SortDesc bool
	Page     int
	Limit    int
}

// BiometricRepository defines persistence operations for biometrics.
type BiometricRepository interface {
	Create(ctx context.Context, b *domain.Biometric) error
	// FindByID retrieves a biometric by id. When userID is non-empty the
	// query is additionally scoped to that owner: a record owned by
	// someone else is reported as not found.
	FindByID(ctx context.Context, id string, userID string) (*domain.Biometric, error)
	FindByLeadID(ctx context.Context, leadID string) (*domain.Biometric, error)
	Update(ctx context.Context, b *domain.Biometric) error
	List(ctx context.Context, filter BiometricFilter) ([]*domain.Biometric, int64, error)
	// Search performs a case-insensitive substring match of query against
	// name and location, narrowed by exact-match filters.
	Search(ctx context.Context, query string, filters map[string]string) ([]*domain.Biometric, error)
	StatusCounts(ctx context.Context, userID string) (map[domain.BiometricStatus]int64, error)
	DistinctLocations(ctx context.Context, userID string) ([]string, error)
}
