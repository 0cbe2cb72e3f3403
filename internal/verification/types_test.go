// In-package tests: the decision-to-delta and decision-to-code mappings under
// test are unexported.
package verification

import (
	"testing"

	"github.com/yephonekyaw/sit-cert-server/internal/dashboard"
	"github.com/yephonekyaw/sit-cert-server/internal/notifications"
	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
)

func TestVerdictStatus(t *testing.T) {
	tests := []struct {
		decision Decision
		expected string
	}{
		{DecisionApprove, submissions.StatusApproved},
		{DecisionReject, submissions.StatusRejected},
		{DecisionManualReview, submissions.StatusManualReview},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			v := Verdict{Decision: tt.decision}
			if got := v.Status(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDeltaFor(t *testing.T) {
	tests := []struct {
		decision Decision
		expected dashboard.Delta
	}{
		{DecisionApprove, dashboard.Delta{Approved: 1, Pending: -1, AgentVerification: 1}},
		{DecisionReject, dashboard.Delta{Rejected: 1, Pending: -1}},
		{DecisionManualReview, dashboard.Delta{ManualReview: 1, Pending: -1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			if got := deltaFor(tt.decision); got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		decision Decision
		expected string
	}{
		{DecisionApprove, notifications.CodeVerify},
		{DecisionReject, notifications.CodeReject},
		{DecisionManualReview, notifications.CodeRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			if got := codeFor(tt.decision); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMismatchedComments(t *testing.T) {
	v := Mismatched([]string{"University Name", "Record Id"})

	if v.Decision != DecisionReject {
		t.Errorf("decision = %q, want REJECT", v.Decision)
	}
	if len(v.Comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(v.Comments))
	}
	if v.Comments[1] != "University Name" || v.Comments[2] != "Record Id" {
		t.Errorf("field comments = %v", v.Comments[1:])
	}
}
