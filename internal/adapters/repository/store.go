// Package repository holds the loaded dataset snapshot.
package repository

import (
	"context"
	"time"

	"github.com/okian/medalboard/internal/domain/model"
)

// Snapshot is one loaded generation of the dataset.
type Snapshot struct {
	Dataset    *model.Dataset
	Generation uint64
	SwappedAt  time.Time
}

// Store provides access to the current dataset.
type Store interface {
	// Current returns the latest dataset.
	// Returns ErrNotLoaded before the first successful Swap.
	Current(ctx context.Context) (*model.Dataset, error)

	// Snapshot returns the latest dataset with its generation.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Swap publishes ds as the new generation and returns its number.
	Swap(ctx context.Context, ds *model.Dataset) (uint64, error)

	// Generation returns the current generation, 0 before the first Swap.
	Generation(ctx context.Context) uint64
}
