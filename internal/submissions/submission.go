// Package submissions implements data access for student certificate
// submissions and their append-only verification history.
package submissions

import (
	"time"

	"github.com/google/uuid"
)

// Submission statuses.
const (
	StatusPending      = "pending"
	StatusApproved     = "approved"
	StatusRejected     = "rejected"
	StatusManualReview = "manual_review"
)

// Verification types recorded in history entries.
const (
	VerificationAgent = "AGENT"
	VerificationHuman = "HUMAN"
)

// Submission represents a certificate uploaded by a student against a
// requirement schedule.
type Submission struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	ScheduleID  uuid.UUID `json:"schedule_id"`
	Filename    string    `json:"filename"`
	FileKey     string    `json:"file_key"`
	ContentType string    `json:"content_type"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Detail is a Submission joined with the submitting student's identity,
// which verification needs for name matching and notification routing.
type Detail struct {
	Submission
	StudentFullName string    `json:"student_full_name"`
	StudentUserID   uuid.UUID `json:"student_user_id"`
}

// HistoryEntry is one append-only record of a status transition. VerifierID
// is nil for automated runs.
type HistoryEntry struct {
	ID               uuid.UUID  `json:"id"`
	SubmissionID     uuid.UUID  `json:"submission_id"`
	VerifierID       *uuid.UUID `json:"verifier_id"`
	VerificationType string     `json:"verification_type"`
	OldStatus        string     `json:"old_status"`
	NewStatus        string     `json:"new_status"`
	Comments         []string   `json:"comments"`
	CreatedAt        time.Time  `json:"created_at"`
}

// RecordCommand carries one verification outcome to persist. The status
// update and history insert commit in a single transaction.
type RecordCommand struct {
	SubmissionID     uuid.UUID
	VerifierID       *uuid.UUID
	VerificationType string
	NewStatus        string
	Comments         []string
}
