package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"civicpulse/domain/core"
	"civicpulse/domain/evidence"
	"civicpulse/domain/geo"
	"civicpulse/domain/verdict"
)

// ReflexRepository handles reflex verdict documents
type ReflexRepository struct {
	db *sqlx.DB
}

// NewReflexRepository creates a new reflex verdict repository
func NewReflexRepository(db *sqlx.DB) *ReflexRepository {
	return &ReflexRepository{db: db}
}

type reflexRow struct {
	ID               string          `db:"id"`
	CellID           string          `db:"cell_id"`
	Category         string          `db:"category"`
	Location         string          `db:"location"`
	Latitude         float64         `db:"latitude"`
	Longitude        float64         `db:"longitude"`
	Evidence         []byte          `db:"evidence"`
	SourceCounts     []byte          `db:"source_counts"`
	ProcessedByReact bool            `db:"processed_by_react"`
	ReactVerdict     sql.NullString  `db:"react_verdict"`
	CrowdConfidence  float64         `db:"crowd_confidence"`
	CreatedAt        time.Time       `db:"created_at"`
}

const reflexColumns = `id, cell_id, category, location, latitude, longitude,
	evidence, source_counts, processed_by_react, react_verdict,
	crowd_confidence, created_at`

func (r reflexRow) toDomain() (*verdict.ReflexVerdict, error) {
	var bundle evidence.Bundle
	if err := json.Unmarshal(r.Evidence, &bundle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evidence: %w", err)
	}
	var counts evidence.SourceCounts
	if err := json.Unmarshal(r.SourceCounts, &counts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source counts: %w", err)
	}

	return &verdict.ReflexVerdict{
		ID:       core.ReflexID(r.ID),
		CellID:   core.CellID(r.CellID),
		Category: r.Category,
		Location: r.Location,
		Coordinates: geo.Coordinates{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
		Evidence:         bundle,
		SourceCounts:     counts,
		ProcessedByReact: r.ProcessedByReact,
		ReactVerdict:     verdict.FinalVerdict(r.ReactVerdict.String),
		CrowdConfidence:  r.CrowdConfidence,
		CreatedAt:        core.NewTimestamp(r.CreatedAt),
	}, nil
}

// Insert persists a new reflex verdict. created_at is server-assigned.
func (r *ReflexRepository) Insert(ctx context.Context, rv *verdict.ReflexVerdict) error {
	evidenceJSON, err := json.Marshal(rv.Evidence)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence: %w", err)
	}
	countsJSON, err := json.Marshal(rv.SourceCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal source counts: %w", err)
	}

	query := `
		INSERT INTO reflex_verdicts (
			id, cell_id, category, location, latitude, longitude,
			evidence, source_counts, processed_by_react, crowd_confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, 0)`

	_, err = r.db.ExecContext(ctx, query,
		rv.ID.String(),
		rv.CellID.String(),
		rv.Category,
		rv.Location,
		rv.Coordinates.Latitude,
		rv.Coordinates.Longitude,
		evidenceJSON,
		countsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reflex verdict: %w", err)
	}
	return nil
}

// GetByID retrieves a reflex verdict
func (r *ReflexRepository) GetByID(ctx context.Context, id core.ReflexID) (*verdict.ReflexVerdict, error) {
	query := `SELECT ` + reflexColumns + ` FROM reflex_verdicts WHERE id = $1`

	var row reflexRow
	err := r.db.GetContext(ctx, &row, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", core.ErrReflexNotFound, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reflex verdict: %w", err)
	}
	return row.toDomain()
}

// ListUnprocessed returns up to limit unprocessed documents, oldest first.
// The ordering is stable within one call but otherwise unspecified.
func (r *ReflexRepository) ListUnprocessed(ctx context.Context, limit int) ([]*verdict.ReflexVerdict, error) {
	query := `
		SELECT ` + reflexColumns + `
		FROM reflex_verdicts
		WHERE processed_by_react = FALSE
		ORDER BY created_at
		LIMIT $1`

	var rows []reflexRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list unprocessed reflex verdicts: %w", err)
	}

	verdicts := make([]*verdict.ReflexVerdict, 0, len(rows))
	for _, row := range rows {
		rv, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, rv)
	}
	return verdicts, nil
}

// FinalizeProcessed flips processed_by_react and records the analysis
// outcome in one conditional update. The processed_by_react guard makes
// claiming at-most-once: a second worker gets false, never a double update.
func (r *ReflexRepository) FinalizeProcessed(ctx context.Context, id core.ReflexID, v verdict.FinalVerdict, confidence float64) (bool, error) {
	query := `
		UPDATE reflex_verdicts
		SET processed_by_react = TRUE,
		    react_verdict = $2,
		    crowd_confidence = $3,
		    react_processed_at = now()
		WHERE id = $1 AND processed_by_react = FALSE`

	result, err := r.db.ExecContext(ctx, query, id.String(), string(v), confidence)
	if err != nil {
		return false, fmt.Errorf("failed to finalize reflex verdict: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read finalize result: %w", err)
	}
	return affected == 1, nil
}

// ListByCell returns reflex verdicts bucketed to a cell, newest first
func (r *ReflexRepository) ListByCell(ctx context.Context, cellID core.CellID, limit int) ([]*verdict.ReflexVerdict, error) {
	query := `
		SELECT ` + reflexColumns + `
		FROM reflex_verdicts
		WHERE cell_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var rows []reflexRow
	if err := r.db.SelectContext(ctx, &rows, query, cellID.String(), limit); err != nil {
		return nil, fmt.Errorf("failed to list reflex verdicts for cell: %w", err)
	}

	verdicts := make([]*verdict.ReflexVerdict, 0, len(rows))
	for _, row := range rows {
		rv, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, rv)
	}
	return verdicts, nil
}
