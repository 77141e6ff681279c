// Package postgres implements the document-store ports over PostgreSQL.
// Nested documents (evidence, traces) live in JSONB columns; the
// conditional-update and array-union primitives are single SQL statements
// so they stay atomic under concurrent workers.
package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS grid_cells (
		seq BIGSERIAL PRIMARY KEY,
		cell_id TEXT UNIQUE NOT NULL,
		min_lat DOUBLE PRECISION NOT NULL,
		min_lon DOUBLE PRECISION NOT NULL,
		max_lat DOUBLE PRECISION NOT NULL,
		max_lon DOUBLE PRECISION NOT NULL,
		incidents TEXT[] NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'idle',
		last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reflex_verdicts (
		id UUID PRIMARY KEY,
		cell_id TEXT NOT NULL,
		category TEXT NOT NULL,
		location TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		evidence JSONB NOT NULL,
		source_counts JSONB NOT NULL,
		processed_by_react BOOLEAN NOT NULL DEFAULT FALSE,
		react_verdict TEXT,
		crowd_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		react_processed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS reflex_verdicts_unprocessed_idx
		ON reflex_verdicts (processed_by_react, created_at)`,
	`CREATE INDEX IF NOT EXISTS reflex_verdicts_cell_idx
		ON reflex_verdicts (cell_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS react_verdicts (
		id UUID PRIMARY KEY,
		reflex_verdict_id UUID NOT NULL,
		cell_id TEXT NOT NULL,
		category TEXT NOT NULL,
		thought_process JSONB NOT NULL DEFAULT '[]',
		actions JSONB NOT NULL DEFAULT '[]',
		final_verdict TEXT,
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		analysis TEXT,
		status TEXT NOT NULL,
		error TEXT,
		start_time TEXT NOT NULL,
		end_time TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS react_verdicts_reflex_idx
		ON react_verdicts (reflex_verdict_id)`,
}

// Migrate creates the three collections and their indexes. Statements are
// idempotent; running migrate twice is safe.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
