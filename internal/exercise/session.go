package exercise

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/umka-learn/umka/internal/domain"
	"github.com/umka-learn/umka/internal/match"
)

// State represents the session lifecycle. Transitions are one-way except
// Reset, which returns an evaluated session to InProgress.
type State string

const (
	StateInProgress State = "in_progress"
	StateEvaluated  State = "evaluated"
	StateCompleted  State = "completed"
)

// Result is the outcome of an evaluation.
type Result struct {
	Correct bool
	Score   int
}

// Session is the stateful controller for a single exercise instance. It
// holds in-progress input, derives correctness and, on completion, reports
// the score upward exactly once. Sessions are never persisted.
type Session struct {
	ID        string
	Exercise  *domain.Exercise
	Policy    Policy
	CreatedAt time.Time

	state  State
	result *Result

	// order variants: the user's click sequence
	picked []string

	// match-pairs: display order is shuffled once per instantiation and
	// survives Reset
	leftOrder  []int
	rightOrder []int
	selected   int // pending left selection, -1 when none
	matched    []pairing

	// fill-blank
	spots    []match.BlankSpot
	inputs   []string
	firstTry []bool
	tried    []bool

	onComplete func(score int)
}

type pairing struct {
	left  int
	right int
}

// NewSession configures a session for the given exercise. Match-pairs
// display order is shuffled here, once; fill-blank templates are resolved
// into blank positions. Malformed content yields a session with zero
// elements that still operates and scores 0.
func NewSession(e *domain.Exercise, policy Policy, rng *rand.Rand, onComplete func(score int)) *Session {
	s := &Session{
		ID:         uuid.New().String(),
		Exercise:   e,
		Policy:     policy,
		CreatedAt:  time.Now(),
		state:      StateInProgress,
		selected:   -1,
		onComplete: onComplete,
	}

	switch e.Variant {
	case domain.VariantMatchPairs:
		n := e.ItemCount()
		s.leftOrder = shuffledIndices(rng, n)
		s.rightOrder = shuffledIndices(rng, n)
	case domain.VariantFillBlank:
		if e.Content.Blanks != nil {
			s.spots = match.ParseBlanks(e.Content.Blanks.Groups, e.Answer.Words)
		}
		s.inputs = make([]string, len(s.spots))
		s.firstTry = make([]bool, len(s.spots))
		s.tried = make([]bool, len(s.spots))
	}

	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Result returns the evaluation outcome, or nil before evaluation.
func (s *Session) Result() *Result { return s.result }

// LeftOrder returns the shuffled display order of left-column items.
func (s *Session) LeftOrder() []int { return s.leftOrder }

// RightOrder returns the shuffled display order of right-column items.
func (s *Session) RightOrder() []int { return s.rightOrder }

// Blanks returns the resolved blank positions of a fill-blank session.
func (s *Session) Blanks() []match.BlankSpot { return s.spots }

// SelectItem records one click of an order-variant arrangement. The
// session evaluates when the arrangement is complete, or immediately on
// the first click when the legacy EvaluateOnFirstInput policy is set.
func (s *Session) SelectItem(item string) error {
	if s.state != StateInProgress {
		return domain.ErrSessionCompleted
	}
	if s.Exercise.Variant != domain.VariantDragOrder && s.Exercise.Variant != domain.VariantSequenceOrder {
		return nil
	}
	s.picked = append(s.picked, item)
	if s.Policy.EvaluateOnFirstInput || len(s.picked) >= s.Exercise.ItemCount() {
		s.evaluate()
	}
	return nil
}

// SelectLeft records the pending left selection of a match-pairs session.
// Already-matched items cannot be reselected.
func (s *Session) SelectLeft(leftIdx int) {
	if s.state != StateInProgress || s.Exercise.Variant != domain.VariantMatchPairs {
		return
	}
	for _, p := range s.matched {
		if p.left == leftIdx {
			return
		}
	}
	s.selected = leftIdx
}

// ConfirmRight pairs the pending left selection with the right item at
// rightIdx. Without a pending selection it is a no-op.
func (s *Session) ConfirmRight(rightIdx int) (accepted, allMatched bool) {
	if s.selected < 0 {
		return false, false
	}
	return s.ConfirmPair(s.selected, rightIdx)
}

// ConfirmPair attempts to pair the left item at leftIdx with the right
// item at rightIdx (indices into the defining pair set, not display
// order). An incorrect pairing is rejected with no state change and no
// penalty; the pending selection simply resets. Returns whether the
// pairing was accepted and whether all pairs are now matched.
func (s *Session) ConfirmPair(leftIdx, rightIdx int) (accepted, allMatched bool) {
	if s.state != StateInProgress || s.Exercise.Variant != domain.VariantMatchPairs {
		return false, false
	}
	if s.Exercise.Content.Pairs == nil || s.isMatched(leftIdx, rightIdx) {
		return false, false
	}
	defining := s.Exercise.Content.Pairs.Pairs
	if leftIdx < 0 || leftIdx >= len(defining) || rightIdx < 0 || rightIdx >= len(defining) {
		return false, false
	}
	if !match.PairAccepted(defining, leftIdx, rightIdx) {
		s.selected = -1
		return false, false
	}
	s.matched = append(s.matched, pairing{left: leftIdx, right: rightIdx})
	s.selected = -1
	return true, len(s.matched) == len(defining)
}

func (s *Session) isMatched(leftIdx, rightIdx int) bool {
	for _, p := range s.matched {
		if p.left == leftIdx || p.right == rightIdx {
			return true
		}
	}
	return false
}

// SetBlankValue records input for one blank. The first-try flag freezes on
// the blank's first non-empty input: a correct first attempt locks it true
// forever, a wrong first attempt locks it false forever. Later edits still
// update current correctness for feedback. Returns whether the input is
// currently correct.
func (s *Session) SetBlankValue(idx int, value string) bool {
	if s.state != StateInProgress || idx < 0 || idx >= len(s.spots) {
		return false
	}
	s.inputs[idx] = value
	correct := match.Blank(s.spots[idx].Want, value)
	if !s.tried[idx] && value != "" {
		s.tried[idx] = true
		s.firstTry[idx] = correct
	}
	return correct
}

// NextUnfilledBlank returns the lowest blank index after idx with no
// input, or -1. The caller uses it for cosmetic focus advance.
func (s *Session) NextUnfilledBlank(idx int) int {
	for i := idx + 1; i < len(s.inputs); i++ {
		if s.inputs[i] == "" {
			return i
		}
	}
	return -1
}

// AllFilled reports whether every blank has input.
func (s *Session) AllFilled() bool {
	for _, in := range s.inputs {
		if in == "" {
			return false
		}
	}
	return true
}

// FirstTryScore is the running first-try score: one point per blank whose
// first attempt was correct. It never decreases.
func (s *Session) FirstTryScore() int {
	score := 0
	for _, ok := range s.firstTry {
		if ok {
			score++
		}
	}
	return score
}

// Check explicitly finalizes the candidate state into an evaluation.
func (s *Session) Check() (*Result, error) {
	if s.state == StateCompleted {
		return nil, domain.ErrSessionCompleted
	}
	if s.state == StateEvaluated {
		return s.result, nil
	}
	s.evaluate()
	return s.result, nil
}

func (s *Session) evaluate() {
	var res Result
	switch s.Exercise.Variant {
	case domain.VariantDragOrder, domain.VariantSequenceOrder:
		res.Correct = match.Sequence(s.picked, s.Exercise.Answer.Sequence)
		if res.Correct {
			res.Score = s.Exercise.Points
		}
	case domain.VariantMatchPairs:
		if s.Exercise.ItemCount() > 0 {
			res.Correct = match.Pairs(s.candidatePairs(), s.Exercise.Answer.PairSet)
		}
		if res.Correct {
			res.Score = s.Exercise.Points
		}
	case domain.VariantFillBlank:
		res = s.evaluateBlanks()
	}
	s.result = &res
	s.state = StateEvaluated
}

func (s *Session) evaluateBlanks() Result {
	total := len(s.spots)
	correct := 0
	for i, spot := range s.spots {
		if match.Blank(spot.Want, s.inputs[i]) {
			correct++
		}
	}
	all := total > 0 && correct == total

	switch s.Policy.FillBlank {
	case ScoreAllOrNothing:
		if all {
			return Result{Correct: true, Score: s.Exercise.Points}
		}
		return Result{}
	case ScorePartial:
		if all {
			return Result{Correct: true, Score: s.Exercise.Points}
		}
		if total == 0 {
			return Result{}
		}
		score := int(math.Round(float64(s.Exercise.Points) * float64(correct) / float64(total)))
		return Result{Score: score}
	default: // ScoreFirstTry
		return Result{Correct: all, Score: s.FirstTryScore()}
	}
}

func (s *Session) candidatePairs() []domain.Pair {
	defining := s.Exercise.Content.Pairs.Pairs
	out := make([]domain.Pair, 0, len(s.matched))
	for _, p := range s.matched {
		out = append(out, domain.Pair{Left: defining[p.left].Left, Right: defining[p.right].Right})
	}
	return out
}

// Reset clears all candidate state and returns to InProgress. The
// exercise definition and the shuffle order are unchanged.
func (s *Session) Reset() {
	if s.state == StateCompleted {
		return
	}
	s.picked = nil
	s.matched = nil
	s.selected = -1
	s.inputs = make([]string, len(s.spots))
	s.firstTry = make([]bool, len(s.spots))
	s.tried = make([]bool, len(s.spots))
	s.result = nil
	s.state = StateInProgress
}

// Complete finalizes the session and reports the score upward exactly
// once. The session must have been evaluated.
func (s *Session) Complete() (int, error) {
	if s.state == StateCompleted {
		return s.result.Score, domain.ErrSessionCompleted
	}
	if s.state != StateEvaluated {
		if _, err := s.Check(); err != nil {
			return 0, err
		}
	}
	s.state = StateCompleted
	if s.onComplete != nil {
		s.onComplete(s.result.Score)
	}
	return s.result.Score, nil
}
