package certificates

import "errors"

// Sentinel errors for certificate operations.
var (
	ErrModelExtraction = errors.New("model field extraction failed")
	ErrMetadataDate    = errors.New("malformed metadata date")
)
