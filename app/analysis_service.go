package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"civicpulse/domain/core"
	"civicpulse/domain/verdict"
	"civicpulse/internal/errors"
	"civicpulse/ports"
)

// caps applied when persisting trace results and the final analysis text
const (
	traceResultCap = 500
	analysisCap    = 10000
)

// AnalysisService is the replay stage: it pulls unprocessed reflex verdicts
// in bounded batches and runs the traced analysis procedure per item.
type AnalysisService struct {
	reflexRepo ports.ReflexRepository
	reactRepo  ports.ReactRepository
	generator  ports.Generator
	cells      *CellService
	logger     *zap.Logger
}

// NewAnalysisService creates the analysis orchestrator
func NewAnalysisService(
	reflexRepo ports.ReflexRepository,
	reactRepo ports.ReactRepository,
	generator ports.Generator,
	cells *CellService,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		reflexRepo: reflexRepo,
		reactRepo:  reactRepo,
		generator:  generator,
		cells:      cells,
		logger:     logger,
	}
}

// ItemResult is the per-item summary for a completed analysis
type ItemResult struct {
	DocID      string               `json:"doc_id"`
	CellID     string               `json:"cell_id"`
	Verdict    verdict.FinalVerdict `json:"verdict"`
	Confidence float64              `json:"confidence"`
}

// BatchResult is the outcome of one batch-processing call. Failed items are
// excluded from Results but remain recorded in storage.
type BatchResult struct {
	Processed int          `json:"processed"`
	Results   []ItemResult `json:"results"`
}

// ProcessBatch selects up to batchSize unprocessed reflex verdicts and
// analyzes them sequentially. One item's failure never aborts the batch;
// only the initial query failing does.
func (s *AnalysisService) ProcessBatch(ctx context.Context, batchSize int) (*BatchResult, error) {
	unprocessed, err := s.reflexRepo.ListUnprocessed(ctx, batchSize)
	if err != nil {
		return nil, errors.StorageError("failed to query unprocessed reflex verdicts", err)
	}

	result := &BatchResult{Results: []ItemResult{}}
	for _, rv := range unprocessed {
		item, err := s.processItem(ctx, rv)
		if err != nil {
			s.logger.Warn("reflex verdict analysis failed",
				zap.String("reflex_id", rv.ID.String()),
				zap.Error(err))
			continue
		}
		result.Results = append(result.Results, *item)
	}
	result.Processed = len(result.Results)
	return result, nil
}

// processItem runs one reflex verdict through traced analysis. The react
// verdict is created up front in processing state and always reaches a
// terminal state before this returns.
func (s *AnalysisService) processItem(ctx context.Context, rv *verdict.ReflexVerdict) (*ItemResult, error) {
	react := &verdict.ReactVerdict{
		ID:              core.ReactID(core.NewID()),
		ReflexVerdictID: rv.ID,
		CellID:          rv.CellID,
		Category:        rv.Category,
		Status:          verdict.StatusProcessing,
		StartTime:       nowISO(),
	}
	if err := s.reactRepo.Create(ctx, react); err != nil {
		return nil, errors.StorageError("failed to create react verdict", err)
	}

	finalVerdict, confidence, err := s.analyze(ctx, rv, react.ID)
	if err != nil {
		if failErr := s.reactRepo.Fail(ctx, react.ID, err.Error(), nowISO()); failErr != nil {
			s.logger.Error("failed to mark react verdict failed",
				zap.String("react_id", react.ID.String()),
				zap.Error(failErr))
		}
		// reflex stays unprocessed and eligible for a future batch
		return nil, err
	}

	claimed, err := s.reflexRepo.FinalizeProcessed(ctx, rv.ID, finalVerdict, confidence)
	if err != nil {
		return nil, errors.StorageError("failed to finalize reflex verdict", err)
	}
	if !claimed {
		s.logger.Warn("reflex verdict already claimed by another worker",
			zap.String("reflex_id", rv.ID.String()))
		return nil, fmt.Errorf("reflex verdict %s already processed", rv.ID.String())
	}

	return &ItemResult{
		DocID:      rv.ID.String(),
		CellID:     rv.CellID.String(),
		Verdict:    finalVerdict,
		Confidence: confidence,
	}, nil
}

// analyze runs the traced analysis procedure: every step lands in the react
// verdict's trace, thought before act, action after its result is known.
// The reasoning call failing is the one error that aborts the item.
func (s *AnalysisService) analyze(ctx context.Context, rv *verdict.ReflexVerdict, reactID core.ReactID) (verdict.FinalVerdict, float64, error) {
	t := s.tracer(ctx, reactID)

	t.thought(fmt.Sprintf("Beginning analysis for %s in cell %s", rv.Category, rv.CellID.String()))

	t.thought("Collecting evidence from multiple sources")
	snapshot, _ := json.Marshal(rv.Evidence)
	t.action("Evidence collection", truncate(string(snapshot), traceResultCap), true)

	prompt := buildAnalysisPrompt(rv)
	t.thought("Generated analysis prompt")
	t.action("Prompt generation", truncate(prompt, traceResultCap), true)

	t.thought("Querying reasoning model for analysis")
	analysis, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		t.action("Model query failed", err.Error(), false)
		return "", 0, errors.ReasoningFailed(err)
	}
	t.action("Model response received", truncate(analysis, traceResultCap), true)

	finalVerdict, confidence := verdict.Interpret(analysis)
	t.thought(fmt.Sprintf("Determined verdict: %s (confidence: %g)", finalVerdict, confidence))

	if finalVerdict == verdict.VerdictConfirmed {
		t.thought("Updating cell state with confirmed incident")
		outcome := s.cells.ConfirmIncident(ctx, rv.CellID, rv.Category)
		t.action("Cell state update", string(outcome), true)
	} else {
		t.action("Cell state update", "No update needed", false)
	}

	if err := s.reactRepo.Complete(ctx, reactID, finalVerdict, confidence, truncate(analysis, analysisCap), nowISO()); err != nil {
		return "", 0, errors.StorageError("failed to complete react verdict", err)
	}
	return finalVerdict, confidence, nil
}

// tracer binds the append-and-flush trace log for one react verdict.
// Trace writes are audit, not control flow: a failed append is logged and
// the analysis keeps going.
func (s *AnalysisService) tracer(ctx context.Context, id core.ReactID) *traceLog {
	return &traceLog{ctx: ctx, repo: s.reactRepo, id: id, logger: s.logger}
}

type traceLog struct {
	ctx    context.Context
	repo   ports.ReactRepository
	id     core.ReactID
	logger *zap.Logger
}

func (t *traceLog) thought(text string) {
	entry := verdict.ThoughtEntry{Timestamp: nowISO(), Thought: text}
	if err := t.repo.AppendThought(t.ctx, t.id, entry); err != nil {
		t.logger.Error("failed to append thought",
			zap.String("react_id", t.id.String()),
			zap.Error(err))
	}
}

func (t *traceLog) action(action, result string, executed bool) {
	entry := verdict.ActionEntry{
		Timestamp: nowISO(),
		Action:    action,
		Result:    result,
		Executed:  executed,
	}
	if err := t.repo.AppendAction(t.ctx, t.id, entry); err != nil {
		t.logger.Error("failed to append action",
			zap.String("react_id", t.id.String()),
			zap.Error(err))
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
