package verification

import (
	"errors"
	"net/http"

	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
)

// Domain errors for verification operations.
var (
	ErrAlreadyRunning = errors.New("verification already in progress")
	ErrMissingState   = errors.New("pipeline state missing required value")
)

// MapHTTPStatus maps verification errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrAlreadyRunning) {
		return http.StatusConflict
	}
	if errors.Is(err, submissions.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
