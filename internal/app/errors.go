package service

import "errors"

// Sentinel errors returned by the service.
var (
	// ErrDatasetUnavailable is returned by views while no dataset is loaded.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrNotStarted is returned by Reload before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrReloadInProgress is returned when a reload is already running.
	ErrReloadInProgress = errors.New("reload already in progress")
)
