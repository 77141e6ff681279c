package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"civicpulse/domain/core"
	"civicpulse/domain/verdict"
)

// ReactRepository handles react verdict documents. Trace appends are
// single-statement JSONB concatenations, so each entry becomes visible
// atomically and in causal order.
type ReactRepository struct {
	db *sqlx.DB
}

// NewReactRepository creates a new react verdict repository
func NewReactRepository(db *sqlx.DB) *ReactRepository {
	return &ReactRepository{db: db}
}

type reactRow struct {
	ID              string         `db:"id"`
	ReflexVerdictID string         `db:"reflex_verdict_id"`
	CellID          string         `db:"cell_id"`
	Category        string         `db:"category"`
	ThoughtProcess  []byte         `db:"thought_process"`
	Actions         []byte         `db:"actions"`
	FinalVerdict    sql.NullString `db:"final_verdict"`
	Confidence      float64        `db:"confidence"`
	Analysis        sql.NullString `db:"analysis"`
	Status          string         `db:"status"`
	Error           sql.NullString `db:"error"`
	StartTime       string         `db:"start_time"`
	EndTime         sql.NullString `db:"end_time"`
}

const reactColumns = `id, reflex_verdict_id, cell_id, category,
	thought_process, actions, final_verdict, confidence, analysis,
	status, error, start_time, end_time`

func (r reactRow) toDomain() (*verdict.ReactVerdict, error) {
	var thoughts []verdict.ThoughtEntry
	if err := json.Unmarshal(r.ThoughtProcess, &thoughts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal thought process: %w", err)
	}
	var actions []verdict.ActionEntry
	if err := json.Unmarshal(r.Actions, &actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
	}

	return &verdict.ReactVerdict{
		ID:              core.ReactID(r.ID),
		ReflexVerdictID: core.ReflexID(r.ReflexVerdictID),
		CellID:          core.CellID(r.CellID),
		Category:        r.Category,
		ThoughtProcess:  thoughts,
		Actions:         actions,
		FinalVerdict:    verdict.FinalVerdict(r.FinalVerdict.String),
		Confidence:      r.Confidence,
		Analysis:        r.Analysis.String,
		Status:          verdict.ReactStatus(r.Status),
		Error:           r.Error.String,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime.String,
	}, nil
}

// Create persists a new react verdict in processing state
func (r *ReactRepository) Create(ctx context.Context, rv *verdict.ReactVerdict) error {
	query := `
		INSERT INTO react_verdicts (
			id, reflex_verdict_id, cell_id, category,
			thought_process, actions, confidence, status, start_time
		) VALUES ($1, $2, $3, $4, '[]', '[]', $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		rv.ID.String(),
		rv.ReflexVerdictID.String(),
		rv.CellID.String(),
		rv.Category,
		rv.Confidence,
		string(rv.Status),
		rv.StartTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create react verdict: %w", err)
	}
	return nil
}

// GetByID retrieves a react verdict
func (r *ReactRepository) GetByID(ctx context.Context, id core.ReactID) (*verdict.ReactVerdict, error) {
	query := `SELECT ` + reactColumns + ` FROM react_verdicts WHERE id = $1`

	var row reactRow
	err := r.db.GetContext(ctx, &row, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", core.ErrReactNotFound, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get react verdict: %w", err)
	}
	return row.toDomain()
}

// AppendThought appends one entry to the thought log
func (r *ReactRepository) AppendThought(ctx context.Context, id core.ReactID, entry verdict.ThoughtEntry) error {
	return r.appendEntry(ctx, id, "thought_process", entry)
}

// AppendAction appends one entry to the action log
func (r *ReactRepository) AppendAction(ctx context.Context, id core.ReactID, entry verdict.ActionEntry) error {
	return r.appendEntry(ctx, id, "actions", entry)
}

func (r *ReactRepository) appendEntry(ctx context.Context, id core.ReactID, column string, entry interface{}) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal trace entry: %w", err)
	}

	// column is one of two fixed names, never caller input
	query := fmt.Sprintf(`
		UPDATE react_verdicts
		SET %s = %s || jsonb_build_array($2::jsonb)
		WHERE id = $1`, column, column)

	result, err := r.db.ExecContext(ctx, query, id.String(), entryJSON)
	if err != nil {
		return fmt.Errorf("failed to append trace entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read append result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %s", core.ErrReactNotFound, id.String())
	}
	return nil
}

// Complete marks the verdict terminal with its analysis outcome. The status
// guard makes the transition one-way: a verdict that already left processing
// is never rewritten.
func (r *ReactRepository) Complete(ctx context.Context, id core.ReactID, v verdict.FinalVerdict, confidence float64, analysis, endTime string) error {
	query := `
		UPDATE react_verdicts
		SET final_verdict = $2,
		    confidence = $3,
		    analysis = $4,
		    status = $5,
		    end_time = $6
		WHERE id = $1 AND status = $7`

	result, err := r.db.ExecContext(ctx, query,
		id.String(), string(v), confidence, analysis,
		string(verdict.StatusCompleted), endTime,
		string(verdict.StatusProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to complete react verdict: %w", err)
	}
	return checkTransition(result, id)
}

// Fail marks the verdict terminal with the failure message
func (r *ReactRepository) Fail(ctx context.Context, id core.ReactID, errMsg, endTime string) error {
	query := `
		UPDATE react_verdicts
		SET status = $2,
		    error = $3,
		    end_time = $4
		WHERE id = $1 AND status = $5`

	result, err := r.db.ExecContext(ctx, query,
		id.String(), string(verdict.StatusFailed), errMsg, endTime,
		string(verdict.StatusProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark react verdict failed: %w", err)
	}
	return checkTransition(result, id)
}

// checkTransition inspects a terminal-transition update. Zero rows means the
// verdict already reached a terminal status; Create always precedes these
// calls, so a missing row is not a live path.
func checkTransition(result sql.Result, id core.ReactID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read transition result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %s", core.ErrReactTerminal, id.String())
	}
	return nil
}
