package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"civicpulse/domain/core"
	"civicpulse/domain/geo"
)

// CellRepository handles grid cell documents
type CellRepository struct {
	db *sqlx.DB
}

// NewCellRepository creates a new cell repository
func NewCellRepository(db *sqlx.DB) *CellRepository {
	return &CellRepository{db: db}
}

type cellRow struct {
	CellID      string         `db:"cell_id"`
	MinLat      float64        `db:"min_lat"`
	MinLon      float64        `db:"min_lon"`
	MaxLat      float64        `db:"max_lat"`
	MaxLon      float64        `db:"max_lon"`
	Incidents   pq.StringArray `db:"incidents"`
	Status      string         `db:"status"`
	LastUpdated time.Time      `db:"last_updated"`
}

func (r cellRow) toDomain() geo.GridCell {
	return geo.GridCell{
		ID: core.CellID(r.CellID),
		Bounds: geo.Bounds{
			MinLat: r.MinLat,
			MinLon: r.MinLon,
			MaxLat: r.MaxLat,
			MaxLon: r.MaxLon,
		},
		Incidents:   []string(r.Incidents),
		Status:      geo.CellStatus(r.Status),
		LastUpdated: core.NewTimestamp(r.LastUpdated),
	}
}

// ListOrdered returns every cell in provisioning order
func (r *CellRepository) ListOrdered(ctx context.Context) ([]geo.GridCell, error) {
	query := `
		SELECT cell_id, min_lat, min_lon, max_lat, max_lon, incidents, status, last_updated
		FROM grid_cells
		ORDER BY seq`

	var rows []cellRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list grid cells: %w", err)
	}

	cells := make([]geo.GridCell, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, row.toDomain())
	}
	return cells, nil
}

// GetByID retrieves a cell by its logical id
func (r *CellRepository) GetByID(ctx context.Context, id core.CellID) (*geo.GridCell, error) {
	query := `
		SELECT cell_id, min_lat, min_lon, max_lat, max_lon, incidents, status, last_updated
		FROM grid_cells
		WHERE cell_id = $1`

	var row cellRow
	err := r.db.GetContext(ctx, &row, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", core.ErrCellNotFound, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grid cell: %w", err)
	}

	cell := row.toDomain()
	return &cell, nil
}

// AddIncident unions category into the cell's incident set in one atomic
// statement. The guard clause makes the union idempotent: a category already
// present leaves the row (including status and last_updated) untouched.
func (r *CellRepository) AddIncident(ctx context.Context, id core.CellID, category string) (bool, error) {
	query := `
		UPDATE grid_cells
		SET incidents = array_append(incidents, $2),
		    status = 'active',
		    last_updated = now()
		WHERE cell_id = $1 AND NOT ($2 = ANY(incidents))`

	result, err := r.db.ExecContext(ctx, query, id.String(), category)
	if err != nil {
		return false, fmt.Errorf("failed to add incident: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected == 1, nil
}

// Insert provisions a new cell
func (r *CellRepository) Insert(ctx context.Context, cell geo.GridCell) error {
	query := `
		INSERT INTO grid_cells (cell_id, min_lat, min_lon, max_lat, max_lon, incidents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	status := cell.Status
	if status == "" {
		status = geo.CellStatusIdle
	}
	incidents := cell.Incidents
	if incidents == nil {
		incidents = []string{}
	}

	_, err := r.db.ExecContext(ctx, query,
		cell.ID.String(),
		cell.Bounds.MinLat,
		cell.Bounds.MinLon,
		cell.Bounds.MaxLat,
		cell.Bounds.MaxLon,
		pq.StringArray(incidents),
		string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert grid cell: %w", err)
	}
	return nil
}
