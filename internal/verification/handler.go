package verification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
	"github.com/yephonekyaw/sit-cert-server/pkg/handlers"
	"github.com/yephonekyaw/sit-cert-server/pkg/routes"
)

// Handler provides HTTP endpoints for triggering verification runs and
// reading their history.
type Handler struct {
	verifier    *Verifier
	submissions submissions.System
	logger      *slog.Logger
}

// BatchRequest carries the submissions to verify in one batch trigger.
type BatchRequest struct {
	SubmissionIDs []uuid.UUID `json:"submission_ids"`
}

// TriggerResponse acknowledges an accepted verification trigger.
type TriggerResponse struct {
	RequestID string `json:"request_id"`
}

// ErrInvalidID rejects malformed submission identifiers.
var ErrInvalidID = errors.New("invalid submission id")

// NewHandler creates a Handler over the verifier and submission system.
func NewHandler(verifier *Verifier, sys submissions.System, logger *slog.Logger) *Handler {
	return &Handler{
		verifier:    verifier,
		submissions: sys,
		logger:      logger.With("handler", "verification"),
	}
}

// Routes returns the route group definition for verification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/verifications",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}", Handler: h.Trigger},
			{Method: "POST", Pattern: "/batch", Handler: h.TriggerBatch},
			{Method: "GET", Pattern: "/{id}/history", Handler: h.History},
		},
	}
}

// Trigger accepts a verification run for a single submission. The run
// executes asynchronously; its outcome is persisted, not returned.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	requestID := newRequestID(r)

	go func() {
		ctx := context.WithoutCancel(r.Context())
		if err := h.verifier.Verify(ctx, requestID, id); err != nil {
			h.logger.Error("verification not started",
				"request_id", requestID,
				"submission_id", id,
				"error", err,
			)
		}
	}()

	handlers.RespondJSON(w, http.StatusAccepted, TriggerResponse{RequestID: requestID})
}

// TriggerBatch accepts verification runs for multiple submissions.
func (h *Handler) TriggerBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if len(req.SubmissionIDs) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("submission_ids required"))
		return
	}

	requestID := newRequestID(r)

	go func() {
		ctx := context.WithoutCancel(r.Context())
		if err := h.verifier.VerifyBatch(ctx, requestID, req.SubmissionIDs); err != nil {
			h.logger.Error("batch verification incomplete", "request_id", requestID, "error", err)
		}
	}()

	handlers.RespondJSON(w, http.StatusAccepted, TriggerResponse{RequestID: requestID})
}

// History returns the verification history for a submission, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	entries, err := h.submissions.History(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}

func newRequestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.New().String()
}
