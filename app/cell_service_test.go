package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"civicpulse/domain/geo"
	"civicpulse/domain/verdict"
)

func TestConfirmIncidentAdds(t *testing.T) {
	repo := &memCellRepo{cells: []*geo.GridCell{{ID: "cell_a"}}}
	service := NewCellService(repo, zap.NewNop())

	outcome := service.ConfirmIncident(context.Background(), "cell_a", "flood")
	assert.Equal(t, verdict.CellIncidentAdded, outcome)
	assert.Equal(t, []string{"flood"}, repo.cells[0].Incidents)
	assert.Equal(t, geo.CellStatusActive, repo.cells[0].Status)
}

func TestConfirmIncidentIdempotent(t *testing.T) {
	repo := &memCellRepo{cells: []*geo.GridCell{{ID: "cell_a"}}}
	service := NewCellService(repo, zap.NewNop())

	ctx := context.Background()
	assert.Equal(t, verdict.CellIncidentAdded, service.ConfirmIncident(ctx, "cell_a", "flood"))
	assert.Equal(t, verdict.CellIncidentExists, service.ConfirmIncident(ctx, "cell_a", "flood"))
	assert.Equal(t, []string{"flood"}, repo.cells[0].Incidents, "second confirm must not duplicate")

	// a different category still unions in
	assert.Equal(t, verdict.CellIncidentAdded, service.ConfirmIncident(ctx, "cell_a", "fire"))
	assert.Equal(t, []string{"flood", "fire"}, repo.cells[0].Incidents)
}

func TestConfirmIncidentCellNotFound(t *testing.T) {
	repo := &memCellRepo{}
	service := NewCellService(repo, zap.NewNop())

	outcome := service.ConfirmIncident(context.Background(), "nope", "flood")
	assert.Equal(t, verdict.CellNotFound, outcome)
}

func TestConfirmIncidentStorageFailure(t *testing.T) {
	repo := &memCellRepo{cells: []*geo.GridCell{{ID: "cell_a"}}, addErr: errBoom}
	service := NewCellService(repo, zap.NewNop())

	outcome := service.ConfirmIncident(context.Background(), "cell_a", "flood")
	assert.Equal(t, verdict.CellOutcome("Update failed: boom"), outcome)
}
