package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yephonekyaw/sit-cert-server/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a submission repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "submissions"),
	}
}

func (r *repo) FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	q := `
		SELECT cs.id, cs.student_id, cs.schedule_id, cs.filename, cs.file_key,
		       cs.content_type, cs.status, cs.submitted_at, cs.updated_at,
		       s.full_name, s.user_id
		FROM certificate_submissions cs
		JOIN students s ON s.id = cs.student_id
		WHERE cs.id = $1`

	d, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanDetail)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) RecordVerification(ctx context.Context, cmd RecordCommand) (*HistoryEntry, error) {
	comments, err := json.Marshal(cmd.Comments)
	if err != nil {
		return nil, fmt.Errorf("encode comments: %w", err)
	}

	entry, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (HistoryEntry, error) {
		var oldStatus string
		row := tx.QueryRowContext(ctx,
			`SELECT status FROM certificate_submissions WHERE id = $1 FOR UPDATE`,
			cmd.SubmissionID,
		)
		if err := row.Scan(&oldStatus); err != nil {
			return HistoryEntry{}, err
		}

		if err := repository.ExecExpectOne(ctx, tx,
			`UPDATE certificate_submissions SET status = $2, updated_at = now() WHERE id = $1`,
			cmd.SubmissionID, cmd.NewStatus,
		); err != nil {
			return HistoryEntry{}, err
		}

		q := `
			INSERT INTO verification_history(id, submission_id, verifier_id, verification_type, old_status, new_status, comments)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, submission_id, verifier_id, verification_type, old_status, new_status, comments, created_at`

		args := []any{
			uuid.New(),
			cmd.SubmissionID,
			cmd.VerifierID,
			cmd.VerificationType,
			oldStatus,
			cmd.NewStatus,
			comments,
		}

		return repository.QueryOne(ctx, tx, q, args, scanHistoryEntry)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("verification recorded",
		"submission_id", cmd.SubmissionID,
		"old_status", entry.OldStatus,
		"new_status", entry.NewStatus,
	)
	return &entry, nil
}

func (r *repo) History(ctx context.Context, submissionID uuid.UUID) ([]HistoryEntry, error) {
	q := `
		SELECT id, submission_id, verifier_id, verification_type, old_status, new_status, comments, created_at
		FROM verification_history
		WHERE submission_id = $1
		ORDER BY created_at DESC`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{submissionID}, scanHistoryEntry)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return entries, nil
}

func scanDetail(s repository.Scanner) (Detail, error) {
	var d Detail
	err := s.Scan(
		&d.ID,
		&d.StudentID,
		&d.ScheduleID,
		&d.Filename,
		&d.FileKey,
		&d.ContentType,
		&d.Status,
		&d.SubmittedAt,
		&d.UpdatedAt,
		&d.StudentFullName,
		&d.StudentUserID,
	)
	return d, err
}

func scanHistoryEntry(s repository.Scanner) (HistoryEntry, error) {
	var (
		e        HistoryEntry
		comments []byte
	)

	err := s.Scan(
		&e.ID,
		&e.SubmissionID,
		&e.VerifierID,
		&e.VerificationType,
		&e.OldStatus,
		&e.NewStatus,
		&comments,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	if err := json.Unmarshal(comments, &e.Comments); err != nil {
		return e, fmt.Errorf("decode comments: %w", err)
	}
	return e, nil
}
