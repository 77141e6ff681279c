package ports

import (
	"context"

	"civicpulse/domain/core"
	"civicpulse/domain/verdict"
)

// ReflexRepository defines storage operations for reflex verdict documents
type ReflexRepository interface {
	// Insert persists a new reflex verdict and returns nothing beyond the
	// error; the caller generates the id up front
	Insert(ctx context.Context, rv *verdict.ReflexVerdict) error

	// GetByID retrieves a reflex verdict by its id
	GetByID(ctx context.Context, id core.ReflexID) (*verdict.ReflexVerdict, error)

	// ListUnprocessed returns up to limit documents with
	// processed_by_react = false, in store order (unspecified but stable
	// within one call)
	ListUnprocessed(ctx context.Context, limit int) ([]*verdict.ReflexVerdict, error)

	// FinalizeProcessed atomically flips processed_by_react false -> true
	// and sets the react verdict and crowd confidence in one conditional
	// update. Returns false when the document was already claimed.
	FinalizeProcessed(ctx context.Context, id core.ReflexID, v verdict.FinalVerdict, confidence float64) (bool, error)

	// ListByCell returns reflex verdicts bucketed to a cell, newest first
	ListByCell(ctx context.Context, cellID core.CellID, limit int) ([]*verdict.ReflexVerdict, error)
}
