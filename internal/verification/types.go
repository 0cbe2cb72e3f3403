// Package verification orchestrates one certificate verification run: fetch
// the submitted document, extract and validate it, retrieve the
// authoritative copy, cross-check, and finalize exactly one verdict.
package verification

import (
	"github.com/yephonekyaw/sit-cert-server/internal/dashboard"
	"github.com/yephonekyaw/sit-cert-server/internal/notifications"
	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
)

// Decision is the terminal outcome of a verification run.
type Decision string

// Verification decisions.
const (
	DecisionApprove      Decision = "APPROVE"
	DecisionReject       Decision = "REJECT"
	DecisionManualReview Decision = "MANUAL_REVIEW"
)

// Verdict is the immutable outcome of one run. Each run constructs its own
// Verdict locally; verdicts are never shared or mutated across runs.
type Verdict struct {
	Decision Decision `json:"decision"`
	Comments []string `json:"comments"`
}

// Approved returns the verdict for a fully verified certificate.
func Approved() Verdict {
	return Verdict{
		Decision: DecisionApprove,
		Comments: []string{"Submitted certificate is valid and verified by the system."},
	}
}

// Tampered returns the rejection verdict for a document that failed
// authenticity validation.
func Tampered() Verdict {
	return Verdict{
		Decision: DecisionReject,
		Comments: []string{"Document metadata or content did not match expected values. Possible tampering detected."},
	}
}

// Mismatched returns the rejection verdict for a failed cross-check, listing
// every field that disagreed.
func Mismatched(fields []string) Verdict {
	comments := make([]string, 0, len(fields)+1)
	comments = append(comments, "The following fields did not match during cross-check.")
	comments = append(comments, fields...)

	return Verdict{
		Decision: DecisionReject,
		Comments: comments,
	}
}

// Failed returns the fallback rejection verdict for any unexpected error.
func Failed() Verdict {
	return Verdict{
		Decision: DecisionReject,
		Comments: []string{"Unexpected error occurred during the automated verification process, thus rejected. You can resubmit or contact support."},
	}
}

// Status maps the decision to the stored submission status.
func (v Verdict) Status() string {
	switch v.Decision {
	case DecisionApprove:
		return submissions.StatusApproved
	case DecisionManualReview:
		return submissions.StatusManualReview
	default:
		return submissions.StatusRejected
	}
}

// deltaFor returns the dashboard counter increments for a decision. Every
// decision moves the submission out of pending; only automated approvals
// count toward agent verifications.
func deltaFor(decision Decision) dashboard.Delta {
	switch decision {
	case DecisionApprove:
		return dashboard.Delta{Approved: 1, Pending: -1, AgentVerification: 1}
	case DecisionManualReview:
		return dashboard.Delta{ManualReview: 1, Pending: -1}
	default:
		return dashboard.Delta{Rejected: 1, Pending: -1}
	}
}

// codeFor returns the notification code for a decision.
func codeFor(decision Decision) string {
	switch decision {
	case DecisionApprove:
		return notifications.CodeVerify
	case DecisionManualReview:
		return notifications.CodeRequest
	default:
		return notifications.CodeReject
	}
}
