package worker

import "errors"

// ErrNoCompute is returned for a job without a Compute function.
var ErrNoCompute = errors.New("job has no compute function")
