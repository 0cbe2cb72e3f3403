package retrieval

import "errors"

// Sentinel errors for retrieval operations.
var (
	ErrNotConfigured = errors.New("issuer credentials not configured")
	ErrRetrieval     = errors.New("authoritative document retrieval failed")
)
