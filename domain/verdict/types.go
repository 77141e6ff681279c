package verdict

import (
	"civicpulse/domain/core"
	"civicpulse/domain/evidence"
	"civicpulse/domain/geo"
)

// FinalVerdict is the determination produced by traced analysis
type FinalVerdict string

const (
	VerdictConfirmed   FinalVerdict = "Confirmed"
	VerdictDismissed   FinalVerdict = "Dismissed"
	VerdictUnconfirmed FinalVerdict = "Unconfirmed"
)

// ReactStatus is the lifecycle state of a react verdict.
// It moves processing -> completed | failed and is terminal once set.
type ReactStatus string

const (
	StatusProcessing ReactStatus = "processing"
	StatusCompleted  ReactStatus = "completed"
	StatusFailed     ReactStatus = "failed"
)

// ReflexVerdict is the initial, evidence-only record for one incident
// report. Created once by the evidence collector; mutated exactly once when
// analysis completes (processed flag flips, confidence set).
type ReflexVerdict struct {
	ID               core.ReflexID         `json:"id"`
	CellID           core.CellID           `json:"cell_id"`
	Category         string                `json:"category"`
	Location         string                `json:"location"`
	Coordinates      geo.Coordinates       `json:"coordinates"`
	Evidence         evidence.Bundle       `json:"verdicts"`
	SourceCounts     evidence.SourceCounts `json:"sources"`
	ProcessedByReact bool                  `json:"processed_by_react"`
	ReactVerdict     FinalVerdict          `json:"react_verdict,omitempty"`
	CrowdConfidence  float64               `json:"crowd_confidence"`
	CreatedAt        core.Timestamp        `json:"created_at"`
}

// ThoughtEntry is one step of reasoning in a trace, appended before acting
type ThoughtEntry struct {
	Timestamp string `json:"timestamp"`
	Thought   string `json:"thought"`
}

// ActionEntry is one executed (or skipped) step in a trace, appended after
// its result is known. Result text is truncated at storage time.
type ActionEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Result    string `json:"result,omitempty"`
	Executed  bool   `json:"executed"`
}

// ReactVerdict is the traced-analysis record for one reflex verdict. The
// thought and action logs are append-only; insertion order is causal order
// and is observable mid-flight for audit.
type ReactVerdict struct {
	ID              core.ReactID   `json:"id"`
	ReflexVerdictID core.ReflexID  `json:"reflex_verdict_id"`
	CellID          core.CellID    `json:"cell_id"`
	Category        string         `json:"category"`
	ThoughtProcess  []ThoughtEntry `json:"thought_process"`
	Actions         []ActionEntry  `json:"actions"`
	FinalVerdict    FinalVerdict   `json:"final_verdict,omitempty"`
	Confidence      float64        `json:"confidence"`
	Analysis        string         `json:"analysis,omitempty"`
	Status          ReactStatus    `json:"status"`
	Error           string         `json:"error,omitempty"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time,omitempty"`
}

// IsTerminal reports whether the react verdict has reached a final status
func (r *ReactVerdict) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// CellOutcome is the result of folding a confirmed incident into a cell
type CellOutcome string

const (
	CellNotFound       CellOutcome = "Cell not found"
	CellIncidentAdded  CellOutcome = "Successfully added incident"
	CellIncidentExists CellOutcome = "Incident already exists"
)

// CellUpdateFailed formats a storage failure as a descriptive outcome.
// Cell updates never propagate errors into the analysis that invoked them.
func CellUpdateFailed(err error) CellOutcome {
	return CellOutcome("Update failed: " + err.Error())
}
