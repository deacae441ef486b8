package analytics

import "errors"

// Sentinel errors returned by views.
var (
	// ErrNotFound is returned for unknown athletes and countries.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable is returned when the optional file a view needs was not loaded.
	ErrUnavailable = errors.New("data unavailable")
)
