// Package game is the session boundary of the scoring engine. The
// Service owns the single active profile: all ledger mutations flow
// through it, and every mutation triggers a fire-and-forget save plus
// an optional progress event.
package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/umka-learn/umka/internal/catalog"
	"github.com/umka-learn/umka/internal/domain"
	"github.com/umka-learn/umka/internal/exercise"
	"github.com/umka-learn/umka/internal/gateway"
	"github.com/umka-learn/umka/internal/ledger"
	"github.com/umka-learn/umka/internal/quiz"
)

// EventPublisher receives progress notifications. Implementations must
// be safe for concurrent use; failures are logged and swallowed.
type EventPublisher interface {
	ExerciseCompleted(ctx context.Context, profileID, exerciseID string, score int) error
	QuizCompleted(ctx context.Context, profileID, quizID string, score int, passed bool) error
	LessonCompleted(ctx context.Context, profileID, lessonID string) error
	ItemPurchased(ctx context.Context, profileID, itemID string, cost int) error
}

// Service coordinates the catalog, the profile ledger, the shop and the
// persistence gateway for one active user session. A mutex serializes
// profile mutations: the timer goroutine of a timed quiz can finalize
// and credit the ledger while the main goroutine is mid-purchase.
type Service struct {
	catalog *catalog.Registry
	gateway *gateway.Gateway
	shop    *ledger.Shop
	events  EventPublisher // optional
	logger  *slog.Logger
	rng     *rand.Rand
	policy  exercise.Policy

	mu      sync.Mutex
	userKey string
	profile *domain.Profile
}

// Config carries the service dependencies.
type Config struct {
	Catalog *catalog.Registry
	Gateway *gateway.Gateway
	Events  EventPublisher
	Logger  *slog.Logger
	Rand    *rand.Rand
	Policy  *exercise.Policy
}

// NewService assembles the game service. Rand defaults to a time-seeded
// source and Policy to the first-try scoring defaults.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	policy := exercise.DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	return &Service{
		catalog: cfg.Catalog,
		gateway: cfg.Gateway,
		shop:    ledger.NewShop(cfg.Catalog.ShopItems(), rng),
		events:  cfg.Events,
		logger:  logger,
		rng:     rng,
		policy:  policy,
	}
}

// StartSession hydrates the profile for the given user key, or starts a
// fresh guest profile when no snapshot exists, then refreshes the daily
// streak. Load trouble degrades to a guest profile rather than failing.
func (s *Service) StartSession(ctx context.Context, userKey string) *domain.Profile {
	p, err := s.gateway.Load(ctx, userKey)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			s.logger.Warn("profile load failed, starting as guest", "user_key", userKey, "error", err)
		}
		p = domain.NewGuestProfile()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userKey = userKey
	s.profile = p
	s.profile.RefreshStreak(time.Now())
	s.saveLocked()
	return s.profile
}

// SignOut discards the active profile and returns to a fresh guest.
func (s *Service) SignOut() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = domain.NewGuestProfile()
	s.userKey = ""
	return s.profile
}

// Profile returns the active profile.
func (s *Service) Profile() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked()
}

func (s *Service) profileLocked() *domain.Profile {
	if s.profile == nil {
		s.profile = domain.NewGuestProfile()
	}
	return s.profile
}

// NewExerciseSession instantiates an exercise session whose completion
// credits the profile.
func (s *Service) NewExerciseSession(exerciseID string) (*exercise.Session, error) {
	ex, err := s.catalog.ExerciseByID(exerciseID)
	if err != nil {
		return nil, err
	}
	return exercise.NewSession(ex, s.policy, s.rng, func(score int) {
		s.ExerciseCompleted(ex.ID, score)
	}), nil
}

// NewRandomExerciseSession draws a random exercise for the topic (or
// the whole catalog when topicID is empty) and opens a session on it.
func (s *Service) NewRandomExerciseSession(topicID string) *exercise.Session {
	ex := s.catalog.RandomExercise(topicID, s.rng)
	return exercise.NewSession(ex, s.policy, s.rng, func(score int) {
		s.ExerciseCompleted(ex.ID, score)
	})
}

// NewQuizSession instantiates a quiz session whose finalization credits
// the profile, including the fixed pass bonus.
func (s *Service) NewQuizSession(quizID string) (*quiz.Session, error) {
	q, err := s.catalog.QuizByID(quizID)
	if err != nil {
		return nil, err
	}
	return quiz.NewSession(q, func(r quiz.Result) {
		s.QuizCompleted(q.ID, r.Score, r.Passed)
	}), nil
}

// ExerciseCompleted credits an exercise score to the profile.
func (s *Service) ExerciseCompleted(exerciseID string, score int) {
	s.mu.Lock()
	p := s.profileLocked()
	p.AddPoints(score)
	s.saveLocked()
	s.mu.Unlock()

	s.publish(func(ctx context.Context) error {
		return s.events.ExerciseCompleted(ctx, p.ID, exerciseID, score)
	})
}

// QuizCompleted credits a quiz result. A passed quiz earns a fixed
// bonus on top of whatever the quiz scored.
func (s *Service) QuizCompleted(quizID string, score int, passed bool) {
	s.mu.Lock()
	p := s.profileLocked()
	if passed {
		p.AddPoints(domain.QuizPassBonus)
	}
	s.saveLocked()
	s.mu.Unlock()

	s.publish(func(ctx context.Context) error {
		return s.events.QuizCompleted(ctx, p.ID, quizID, score, passed)
	})
}

// LessonCompleted records a lesson completion. Repeats are no-ops and
// publish nothing.
func (s *Service) LessonCompleted(lessonID string) {
	s.mu.Lock()
	p := s.profileLocked()
	if !p.CompleteLesson(lessonID) {
		s.mu.Unlock()
		return
	}
	s.saveLocked()
	s.mu.Unlock()

	s.publish(func(ctx context.Context) error {
		return s.events.LessonCompleted(ctx, p.ID, lessonID)
	})
}

// Purchase runs a shop transaction and returns the user-facing outcome
// message. Rejections are informational; the ledger only changes on
// success.
func (s *Service) Purchase(itemID string, useXP bool) (string, error) {
	s.mu.Lock()
	p := s.profileLocked()
	receipt, err := s.shop.Purchase(p, itemID, useXP)
	if err != nil {
		s.mu.Unlock()
		return ledger.Message(nil, err), err
	}
	s.saveLocked()
	s.mu.Unlock()

	s.publish(func(ctx context.Context) error {
		return s.events.ItemPurchased(ctx, p.ID, receipt.Item.ID, receipt.Cost)
	})
	return ledger.Message(receipt, nil), nil
}

// MarkItemUsed consumes an owned item.
func (s *Service) MarkItemUsed(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileLocked().MarkItemUsed(itemID) {
		s.saveLocked()
	}
}

// SetAvatar replaces the profile avatar.
func (s *Service) SetAvatar(avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileLocked().SetAvatar(avatar)
	s.saveLocked()
}

// saveLocked dispatches a fire-and-forget snapshot of the active
// profile. The caller holds s.mu, so the snapshot the gateway clones is
// consistent. Guests without a user key stay in memory only.
func (s *Service) saveLocked() {
	if s.userKey == "" {
		return
	}
	s.gateway.SaveAsync(s.userKey, s.profileLocked())
}

// publish runs an event publication in the background, logging failures.
func (s *Service) publish(fn func(ctx context.Context) error) {
	if s.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn("progress event publish failed", "error", err)
		}
	}()
}
