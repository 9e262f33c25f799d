package repository

import (
	"context"

	"github.com/oztunc/lesson-planner/internal/domain"
)

// SnapshotRepository persists planner state as one atomic unit.
type SnapshotRepository interface {
	// Load reads the full planner state. Legacy rows lacking billing
	// fields come back defaulted to the canonical Student shape.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save replaces the stored state with the snapshot in a single
	// transaction; a failed save leaves the previous state intact.
	Save(ctx context.Context, snap *domain.Snapshot) error
}
