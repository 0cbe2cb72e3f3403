package extraction

import "errors"

// Sentinel errors for extraction operations.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtraction        = errors.New("document extraction failed")
)
