package loader

import "errors"

// Sentinel kinds for dataset loading errors.
var (
	ErrMissingFile = errors.New("required data file missing")
	ErrMalformed   = errors.New("malformed data file")
)
