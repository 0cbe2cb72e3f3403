package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Guard prevents concurrent verification runs for the same submission.
type Guard interface {
	Acquire(ctx context.Context, submissionID uuid.UUID, ttl time.Duration) (bool, error)
	Release(ctx context.Context, submissionID uuid.UUID) error
}

type redisGuard struct {
	client *redis.Client
}

// NewGuard creates a Redis-backed single-flight guard. The TTL bounds how
// long a crashed run can block re-verification of its submission.
func NewGuard(client *redis.Client) Guard {
	return &redisGuard{client: client}
}

func (g *redisGuard) Acquire(ctx context.Context, submissionID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKey(submissionID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire guard: %w", err)
	}
	return ok, nil
}

func (g *redisGuard) Release(ctx context.Context, submissionID uuid.UUID) error {
	if err := g.client.Del(ctx, guardKey(submissionID)).Err(); err != nil {
		return fmt.Errorf("release guard: %w", err)
	}
	return nil
}

func guardKey(submissionID uuid.UUID) string {
	return "verification:run:" + submissionID.String()
}
