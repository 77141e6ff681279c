package ports

import (
	"context"

	"civicpulse/domain/core"
	"civicpulse/domain/geo"
)

// CellRepository defines storage operations for the pre-provisioned grid.
// Cells are read-mostly; the only mutation is the atomic incident union.
type CellRepository interface {
	// ListOrdered returns every cell in provisioning order, the fixed scan
	// order the spatial index depends on
	ListOrdered(ctx context.Context) ([]geo.GridCell, error)

	// GetByID retrieves a cell by its logical id
	GetByID(ctx context.Context, id core.CellID) (*geo.GridCell, error)

	// AddIncident atomically unions category into the cell's incident set,
	// marks the cell active and bumps last_updated. Returns true when the
	// category was newly added, false when it was already present or the
	// cell does not exist (disambiguate via GetByID).
	AddIncident(ctx context.Context, id core.CellID, category string) (bool, error)

	// Insert provisions a new cell. Used only by the external grid
	// provisioning tool, never by the pipeline.
	Insert(ctx context.Context, cell geo.GridCell) error
}
