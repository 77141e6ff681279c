package app

import (
	"context"

	"go.uber.org/zap"

	"civicpulse/domain/core"
	"civicpulse/domain/verdict"
	"civicpulse/ports"
)

// CellService folds confirmed incidents into grid cell aggregate state
type CellService struct {
	cells  ports.CellRepository
	logger *zap.Logger
}

// NewCellService creates the cell state updater
func NewCellService(cells ports.CellRepository, logger *zap.Logger) *CellService {
	return &CellService{cells: cells, logger: logger}
}

// ConfirmIncident merges a confirmed category into a cell's incident set.
// The union is idempotent and the whole call converts every failure into a
// descriptive outcome: it must never abort the analysis that invoked it.
func (s *CellService) ConfirmIncident(ctx context.Context, cellID core.CellID, category string) verdict.CellOutcome {
	added, err := s.cells.AddIncident(ctx, cellID, category)
	if err != nil {
		s.logger.Error("cell incident update failed",
			zap.String("cell_id", cellID.String()),
			zap.String("category", category),
			zap.Error(err))
		return verdict.CellUpdateFailed(err)
	}
	if added {
		s.logger.Info("cell incident added",
			zap.String("cell_id", cellID.String()),
			zap.String("category", category))
		return verdict.CellIncidentAdded
	}

	// Zero rows means either the category was already present or the cell
	// does not exist; cells are provisioned externally and never created here.
	_, err = s.cells.GetByID(ctx, cellID)
	if core.IsNotFoundError(err) {
		return verdict.CellNotFound
	}
	if err != nil {
		return verdict.CellUpdateFailed(err)
	}
	return verdict.CellIncidentExists
}
