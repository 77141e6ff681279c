package verdict

import (
	"testing"
)

// TestInterpret tests response classification into verdicts
func TestInterpret(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		verdict    FinalVerdict
		confidence float64
	}{
		{
			name:       "explicit positive verdict",
			response:   "Based on the evidence, verdict: yes. The incident is corroborated.",
			verdict:    VerdictConfirmed,
			confidence: 1.0,
		},
		{
			name:       "explicit negative verdict",
			response:   "verdict: no, the report is not supported by any source.",
			verdict:    VerdictDismissed,
			confidence: 0.0,
		},
		{
			name:       "positive determination phrasing",
			response:   "Determination: Yes — corroborating news coverage found.",
			verdict:    VerdictConfirmed,
			confidence: 1.0,
		},
		{
			name:       "negative determination phrasing",
			response:   "After reviewing all sources, Determination: No.",
			verdict:    VerdictDismissed,
			confidence: 0.0,
		},
		{
			name:       "mixed case is normalized",
			response:   "VERDICT: YES",
			verdict:    VerdictConfirmed,
			confidence: 1.0,
		},
		{
			name:       "no explicit determination",
			response:   "The evidence is inconclusive and additional reports are needed.",
			verdict:    VerdictUnconfirmed,
			confidence: 0.5,
		},
		{
			name:       "empty response",
			response:   "",
			verdict:    VerdictUnconfirmed,
			confidence: 0.5,
		},
		{
			name:       "negative wins when both phrases appear",
			response:   "Some sources say verdict: yes but the final verdict: no.",
			verdict:    VerdictDismissed,
			confidence: 0.0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verdict, confidence := Interpret(test.response)
			if verdict != test.verdict {
				t.Errorf("Expected verdict %s, got %s", test.verdict, verdict)
			}
			if confidence != test.confidence {
				t.Errorf("Expected confidence %v, got %v", test.confidence, confidence)
			}
		})
	}
}

// TestReactVerdictIsTerminal tests lifecycle terminality
func TestReactVerdictIsTerminal(t *testing.T) {
	tests := []struct {
		status   ReactStatus
		terminal bool
	}{
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, test := range tests {
		rv := ReactVerdict{Status: test.status}
		if rv.IsTerminal() != test.terminal {
			t.Errorf("Expected IsTerminal()=%v for status %s", test.terminal, test.status)
		}
	}
}

// TestCellUpdateFailed tests the failure outcome formatting
func TestCellUpdateFailed(t *testing.T) {
	outcome := CellUpdateFailed(errString("connection refused"))
	if outcome != "Update failed: connection refused" {
		t.Errorf("Unexpected outcome: %s", outcome)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
