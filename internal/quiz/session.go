package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/umka-learn/umka/internal/domain"
	"github.com/umka-learn/umka/internal/match"
)

// State represents the session lifecycle.
type State string

const (
	StateActive    State = "active"
	StateFinalized State = "finalized"
)

// Result is the graded outcome of a finalized session.
type Result struct {
	Score  int
	Passed bool
}

// Session walks a quiz question by question, collects candidate answers
// and grades them on finalization. A timed quiz runs a one-second
// countdown that force-finalizes at zero; the countdown stops on every
// exit path, whether the session finalizes or is closed unanswered.
type Session struct {
	ID        string
	Quiz      *domain.Quiz
	CreatedAt time.Time

	mu        sync.Mutex
	state     State
	index     int
	answers   map[string]string
	remaining int // seconds; meaningful only when timed
	timed     bool
	result    Result
	stop      chan struct{}

	onFinalize func(Result) // fired outside the lock, exactly once
}

// NewSession prepares a session for the given quiz. The countdown does
// not run until StartTimer is called.
func NewSession(q *domain.Quiz, onFinalize func(Result)) *Session {
	return &Session{
		ID:         uuid.New().String(),
		Quiz:       q,
		CreatedAt:  time.Now(),
		state:      StateActive,
		answers:    make(map[string]string),
		remaining:  q.TimeLimitMinutes * 60,
		timed:      q.TimeLimitMinutes > 0,
		onFinalize: onFinalize,
		stop:       make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the question under review and its index.
func (s *Session) Current() (*domain.QuizQuestion, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.Quiz.Questions) {
		return nil, s.index
	}
	return &s.Quiz.Questions[s.index], s.index
}

// Answer records a candidate for the given question id. The last write
// wins. Answers recorded after finalization are discarded.
func (s *Session) Answer(questionID, candidate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return
	}
	s.answers[questionID] = candidate
}

// AnswerCurrent records a candidate for the question under review.
func (s *Session) AnswerCurrent(candidate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.index >= len(s.Quiz.Questions) {
		return
	}
	s.answers[s.Quiz.Questions[s.index].ID] = candidate
}

// Advance moves to the next question. Advancing past the last question
// finalizes the session and reports whether it did.
func (s *Session) Advance() (finalized bool) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return true
	}
	if s.index < len(s.Quiz.Questions)-1 {
		s.index++
		s.mu.Unlock()
		return false
	}
	fired, res := s.finalizeLocked()
	s.mu.Unlock()
	s.report(fired, res)
	return true
}

// Previous moves back one question so an earlier answer can be reviewed
// or changed. Backward navigation never finalizes.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateActive && s.index > 0 {
		s.index--
	}
}

// Remaining returns the seconds left on the countdown. Untimed and
// finalized sessions report 0; the countdown is released on every exit
// path.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timed || s.state == StateFinalized {
		return 0
	}
	return s.remaining
}

// StartTimer launches the one-second countdown of a timed session. Calls
// on untimed sessions are no-ops. The goroutine exits when the countdown
// reaches zero or the session leaves the active state.
func (s *Session) StartTimer() {
	if !s.timed {
		return
	}
	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				if s.Tick() <= 0 {
					return
				}
			}
		}
	}()
}

// Tick consumes one second of the countdown and returns the seconds
// left. Reaching zero force-finalizes the session exactly as if the
// user had advanced past the last question.
func (s *Session) Tick() int {
	s.mu.Lock()
	if s.state != StateActive || !s.timed {
		left := s.remaining
		s.mu.Unlock()
		return left
	}
	s.remaining--
	left := s.remaining
	var fired bool
	var res Result
	if left <= 0 {
		s.remaining = 0
		left = 0
		fired, res = s.finalizeLocked()
	}
	s.mu.Unlock()
	s.report(fired, res)
	return left
}

// Finalize grades the recorded answers against the quiz and transitions
// to Finalized. Idempotent: repeated calls return the cached result and
// never re-fire the completion callback.
func (s *Session) Finalize() Result {
	s.mu.Lock()
	fired, res := s.finalizeLocked()
	s.mu.Unlock()
	s.report(fired, res)
	return res
}

func (s *Session) finalizeLocked() (fired bool, res Result) {
	if s.state == StateFinalized {
		return false, s.result
	}
	s.state = StateFinalized
	s.stopTimerLocked()

	score := 0
	for i := range s.Quiz.Questions {
		q := &s.Quiz.Questions[i]
		if match.Question(q, s.answers[q.ID]) {
			score += q.Points
		}
	}
	s.result = Result{Score: score, Passed: score >= s.Quiz.PassingScore}
	return true, s.result
}

func (s *Session) report(fired bool, res Result) {
	if fired && s.onFinalize != nil {
		s.onFinalize(res)
	}
}

// Close releases the countdown without finalizing, for when the session
// is abandoned or superseded. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Session) stopTimerLocked() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}
