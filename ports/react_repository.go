package ports

import (
	"context"

	"civicpulse/domain/core"
	"civicpulse/domain/verdict"
)

// ReactRepository defines storage operations for react verdict documents.
// Trace writes are append-and-flush: each append is atomic and immediately
// visible to concurrent readers, preserving causal order.
type ReactRepository interface {
	// Create persists a new react verdict in processing state
	Create(ctx context.Context, rv *verdict.ReactVerdict) error

	// GetByID retrieves a react verdict by its id
	GetByID(ctx context.Context, id core.ReactID) (*verdict.ReactVerdict, error)

	// AppendThought appends one entry to the thought log
	AppendThought(ctx context.Context, id core.ReactID, entry verdict.ThoughtEntry) error

	// AppendAction appends one entry to the action log
	AppendAction(ctx context.Context, id core.ReactID, entry verdict.ActionEntry) error

	// Complete marks the verdict terminal with its determination,
	// confidence, capped analysis text and end time
	Complete(ctx context.Context, id core.ReactID, v verdict.FinalVerdict, confidence float64, analysis, endTime string) error

	// Fail marks the verdict terminal with the failure message and end time
	Fail(ctx context.Context, id core.ReactID, errMsg, endTime string) error
}
