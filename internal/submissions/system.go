package submissions

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for submission domain operations.
type System interface {
	FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	RecordVerification(ctx context.Context, cmd RecordCommand) (*HistoryEntry, error)
	History(ctx context.Context, submissionID uuid.UUID) ([]HistoryEntry, error)
}
