package verdict

import "strings"

// Phrase sets for the literal response classifier. The analysis prompt asks
// the model for an explicit determination token precisely so these substring
// checks stay reliable.
var (
	negativePhrases = []string{"verdict: no", "determination: no"}
	positivePhrases = []string{"verdict: yes", "determination: yes"}
)

// Interpret classifies a raw model response into a verdict and confidence.
// It is a pure function of the lowered text: an explicit negative
// determination dismisses at 0.0, an explicit positive confirms at 1.0,
// anything else is unconfirmed at 0.5. Negatives are checked first.
func Interpret(response string) (FinalVerdict, float64) {
	lowered := strings.ToLower(response)
	if containsAny(lowered, negativePhrases) {
		return VerdictDismissed, 0.0
	}
	if containsAny(lowered, positivePhrases) {
		return VerdictConfirmed, 1.0
	}
	return VerdictUnconfirmed, 0.5
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
