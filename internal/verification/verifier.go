package verification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yephonekyaw/sit-cert-server/internal/notifications"
	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
)

// batchWorkers bounds concurrent verification runs in a batch. Each run
// holds a browser session, so the ceiling stays low.
const batchWorkers = 4

// Verifier executes verification runs and guarantees finalization.
type Verifier struct {
	rt *Runtime
}

// New creates a Verifier over the given runtime.
func New(rt *Runtime) *Verifier {
	return &Verifier{rt: rt}
}

// Verify runs the full pipeline for one submission. Once the submission is
// located, exactly one verdict is persisted regardless of where the pipeline
// fails; pipeline errors are logged and converted to the generic rejection,
// never returned. The returned error covers only the cases where no verdict
// could be recorded: an unknown submission or a run already in flight.
func (v *Verifier) Verify(ctx context.Context, requestID string, submissionID uuid.UUID) error {
	logger := v.rt.Logger.With("request_id", requestID, "submission_id", submissionID)

	ctx, cancel := context.WithTimeout(ctx, v.rt.RunTimeout)
	defer cancel()

	acquired, err := v.rt.Guard.Acquire(ctx, submissionID, v.rt.GuardTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := v.rt.Guard.Release(context.WithoutCancel(ctx), submissionID); err != nil {
			logger.Warn("guard release failed", "error", err)
		}
	}()

	detail, err := v.rt.Submissions.FindDetail(ctx, submissionID)
	if err != nil {
		return err
	}

	// The submission is located; from here the run always finalizes. The
	// finalization context survives run timeout and cancellation.
	verdict := Failed()
	defer func() {
		v.finalize(context.WithoutCancel(ctx), logger, requestID, detail, verdict)
	}()

	result, err := run(ctx, v.rt, detail)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		return nil
	}

	verdict = result
	return nil
}

// VerifyBatch runs verification for multiple submissions with bounded
// concurrency. Pipeline failures are already persisted as rejections by the
// individual runs; the returned error reports only runs that never started.
func (v *Verifier) VerifyBatch(ctx context.Context, requestID string, submissionIDs []uuid.UUID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for _, submissionID := range submissionIDs {
		g.Go(func() error {
			return v.Verify(ctx, requestID, submissionID)
		})
	}

	return g.Wait()
}

// finalize persists the verdict, applies dashboard deltas, and enqueues the
// notification. Each step is attempted independently; a failed step is
// logged and never blocks the others.
func (v *Verifier) finalize(ctx context.Context, logger *slog.Logger, requestID string, detail *submissions.Detail, verdict Verdict) {
	logger.Info("finalizing verdict", "decision", verdict.Decision)

	_, err := v.rt.Submissions.RecordVerification(ctx, submissions.RecordCommand{
		SubmissionID:     detail.ID,
		VerifierID:       nil,
		VerificationType: submissions.VerificationAgent,
		NewStatus:        verdict.Status(),
		Comments:         verdict.Comments,
	})
	if err != nil {
		logger.Error("verdict persistence failed", "error", err)
	}

	if err := v.rt.Stats.Apply(ctx, detail.ScheduleID, deltaFor(verdict.Decision)); err != nil {
		logger.Error("dashboard update failed", "error", err)
	}

	err = v.rt.Notifier.Enqueue(ctx, notifications.Event{
		RequestID:    requestID,
		Code:         codeFor(verdict.Decision),
		EntityID:     detail.ID,
		ActorType:    notifications.ActorSystem,
		RecipientIDs: []uuid.UUID{detail.StudentUserID},
		InApp:        true,
		LineApp:      true,
	})
	if err != nil {
		logger.Error("notification enqueue failed", "error", err)
	}
}
