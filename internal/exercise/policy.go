package exercise

// ScorePolicy selects how a fill-blank exercise is scored at check time.
// Both full-credit and partial-credit deployments exist; the policy is a
// product decision, configured per deployment and overridable per session.
type ScorePolicy string

const (
	// ScoreFirstTry awards one point per blank whose very first non-empty
	// input was correct. Used by the letter-restoration exercises; the
	// exercise's nominal point value is ignored.
	ScoreFirstTry ScorePolicy = "first-try"

	// ScoreAllOrNothing awards the exercise's full point value only when
	// every blank is correct at check time.
	ScoreAllOrNothing ScorePolicy = "all-or-nothing"

	// ScorePartial awards round(points * correct/total) when not fully
	// correct, and the full point value when everything is correct.
	ScorePartial ScorePolicy = "partial"
)

// Policy bundles the evaluation knobs of an exercise session.
type Policy struct {
	// EvaluateOnFirstInput makes order variants evaluate on the very first
	// selected item instead of waiting for the full arrangement. This
	// preserves a legacy behavior and is off by default.
	EvaluateOnFirstInput bool

	// FillBlank is the scoring policy for fill-blank exercises.
	FillBlank ScorePolicy
}

// DefaultPolicy returns the policy used when a deployment configures
// nothing: full arrangements required, first-try blank scoring.
func DefaultPolicy() Policy {
	return Policy{FillBlank: ScoreFirstTry}
}

// ParseScorePolicy maps a configuration string to a ScorePolicy.
// Unrecognized values fall back to first-try scoring.
func ParseScorePolicy(s string) ScorePolicy {
	switch ScorePolicy(s) {
	case ScoreAllOrNothing, ScorePartial, ScoreFirstTry:
		return ScorePolicy(s)
	}
	return ScoreFirstTry
}
