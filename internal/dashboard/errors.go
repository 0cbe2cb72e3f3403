package dashboard

import "errors"

// ErrNotFound indicates the schedule has no statistics row.
var ErrNotFound = errors.New("dashboard statistics not found")
