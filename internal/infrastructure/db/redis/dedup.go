package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const duplicateWindow = time.Hour

// DuplicateGuard suppresses repeated status-change notifications backed by
// Redis. A form re-submission within the window still writes the status but
// must not notify twice.
// Key format: notify:<entity>:<id>:<status>
type DuplicateGuard struct {
	client *redis.Client
}

// NewDuplicateGuard creates a DuplicateGuard wrapping the given Redis client.
func NewDuplicateGuard(client *redis.Client) *DuplicateGuard {
	return &DuplicateGuard{client: client}
}

// Seen reports whether this exact status change has already been announced.
func (g *DuplicateGuard) Seen(ctx context.Context, entity, id, status string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(entity, id, status)).Result()
	if err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this status change was announced (expires after the
// duplicate window).
func (g *DuplicateGuard) Mark(ctx context.Context, entity, id, status string) error {
	return g.client.Set(ctx, g.key(entity, id, status), "1", duplicateWindow).Err()
}

func (g *DuplicateGuard) key(entity, id, status string) string {
	return fmt.Sprintf("notify:%s:%s:%s", entity, id, status)
}
