package ports

import (
	"context"

	"github.com/phenogo/phenogo/pkg/population"
)

// RunStore persists population snapshots keyed by run ID, enabling stop and
// resume of long simulations and inspection over the HTTP surface.
type RunStore interface {
	// Save persists the snapshot for a run.
	Save(ctx context.Context, runID string, snap *population.Snapshot) error

	// Load retrieves the snapshot for a run. Returns domain.ErrRunNotFound
	// if the run does not exist.
	Load(ctx context.Context, runID string) (*population.Snapshot, error)

	// Delete removes the snapshot for a run.
	Delete(ctx context.Context, runID string) error

	// List returns the known run IDs, sorted.
	List(ctx context.Context) ([]string, error)
}
