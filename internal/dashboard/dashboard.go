// Package dashboard maintains per-schedule submission counters. Verification
// outcomes are applied as named integer deltas in a single atomic update.
package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yephonekyaw/sit-cert-server/pkg/repository"
)

// Delta is a set of signed counter increments applied together.
type Delta struct {
	Approved          int
	Rejected          int
	ManualReview      int
	Pending           int
	AgentVerification int
}

// System defines the public contract for dashboard statistics.
type System interface {
	Apply(ctx context.Context, scheduleID uuid.UUID, delta Delta) error
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a dashboard statistics repository.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "dashboard"),
	}
}

// Apply adds the delta to the schedule's aggregate row. The row must exist;
// schedules are seeded when requirements are published.
func (r *repo) Apply(ctx context.Context, scheduleID uuid.UUID, delta Delta) error {
	q := `
		UPDATE dashboard_stats
		SET approved_count = approved_count + $2,
		    rejected_count = rejected_count + $3,
		    manual_review_count = manual_review_count + $4,
		    pending_count = pending_count + $5,
		    agent_verification_count = agent_verification_count + $6,
		    updated_at = now()
		WHERE schedule_id = $1`

	err := repository.ExecExpectOne(ctx, r.db, q,
		scheduleID,
		delta.Approved,
		delta.Rejected,
		delta.ManualReview,
		delta.Pending,
		delta.AgentVerification,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	r.logger.Debug("dashboard delta applied", "schedule_id", scheduleID)
	return nil
}
