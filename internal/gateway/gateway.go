// Package gateway is the persistence boundary of the game. It hides
// whether profile snapshots live in a remote store, a local file, or
// both, and guarantees gameplay never blocks on or fails from a write.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/umka-learn/umka/internal/domain"
)

// Snapshotter stores and retrieves profile snapshots by user key.
type Snapshotter interface {
	SaveSnapshot(ctx context.Context, userKey string, p *domain.Profile) error
	LoadSnapshot(ctx context.Context, userKey string) (*domain.Profile, error)
}

// Outcome describes the durability level a save achieved.
type Outcome string

const (
	// OutcomeStored means the primary store accepted the snapshot.
	OutcomeStored Outcome = "stored"
	// OutcomeDegraded means the primary store failed and the snapshot
	// landed only in the local fallback.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeLost means no store accepted the snapshot.
	OutcomeLost Outcome = "lost"
)

// Gateway routes snapshots to a remote primary with a local fallback.
// Remote trouble degrades silently: callers always get an Outcome,
// never an error they must handle.
type Gateway struct {
	remote Snapshotter // optional
	local  Snapshotter
	logger *slog.Logger

	saveBreaker circuitbreaker.CircuitBreaker[struct{}]
	saveRetry   retry.Retry[struct{}]
	loadBreaker circuitbreaker.CircuitBreaker[*domain.Profile]
	loadRetry   retry.Retry[*domain.Profile]
}

// New creates a gateway. remote may be nil, in which case local is the
// primary tier and saves there count as stored, not degraded.
func New(remote, local Snapshotter, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gateway{remote: remote, local: local, logger: logger}

	if remote != nil {
		notFound := func(err error) bool {
			return !errors.Is(err, domain.ErrProfileNotFound)
		}
		g.saveRetry = retry.New[struct{}](retry.Config{
			MaxAttempts:   3,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
		})
		g.loadRetry = retry.New[*domain.Profile](retry.Config{
			MaxAttempts:   2,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			IsRetryable:   notFound,
		})
		g.saveBreaker = circuitbreaker.New[struct{}](circuitbreaker.Config{
			MaxRequests: 2,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("snapshot store circuit state change",
					"from", from.String(), "to", to.String())
			},
		})
		g.loadBreaker = circuitbreaker.New[*domain.Profile](circuitbreaker.Config{
			MaxRequests: 2,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
	}
	return g
}

// Save persists a snapshot at the best durability available. Failures
// are logged, never returned.
func (g *Gateway) Save(ctx context.Context, userKey string, p *domain.Profile) Outcome {
	if g.remote != nil {
		_, err := g.saveBreaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
			return g.saveRetry.Do(ctx, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, g.remote.SaveSnapshot(ctx, userKey, p)
			})
		})
		if err == nil {
			// keep the local cache warm for offline starts
			if lerr := g.local.SaveSnapshot(ctx, userKey, p); lerr != nil {
				g.logger.Warn("local cache write failed", "user_key", userKey, "error", lerr)
			}
			return OutcomeStored
		}
		g.logger.Warn("remote snapshot save failed, falling back to local",
			"user_key", userKey, "error", err)
		if lerr := g.local.SaveSnapshot(ctx, userKey, p); lerr != nil {
			g.logger.Error("local snapshot save failed", "user_key", userKey, "error", lerr)
			return OutcomeLost
		}
		return OutcomeDegraded
	}

	if err := g.local.SaveSnapshot(ctx, userKey, p); err != nil {
		g.logger.Error("local snapshot save failed", "user_key", userKey, "error", err)
		return OutcomeLost
	}
	return OutcomeStored
}

// Load retrieves the freshest snapshot available, preferring the remote
// store. A profile missing everywhere is domain.ErrProfileNotFound.
func (g *Gateway) Load(ctx context.Context, userKey string) (*domain.Profile, error) {
	if g.remote != nil {
		p, err := g.loadBreaker.Execute(ctx, func(ctx context.Context) (*domain.Profile, error) {
			return g.loadRetry.Do(ctx, func(ctx context.Context) (*domain.Profile, error) {
				return g.remote.LoadSnapshot(ctx, userKey)
			})
		})
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrProfileNotFound) {
			g.logger.Warn("remote snapshot load failed, falling back to local",
				"user_key", userKey, "error", err)
		}
	}

	p, err := g.local.LoadSnapshot(ctx, userKey)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		g.logger.Warn("local snapshot load failed", "user_key", userKey, "error", err)
		return nil, err
	}
	return p, nil
}

// SaveAsync dispatches a fire-and-forget save of a deep copy of the
// profile. Gameplay never waits on it.
func (g *Gateway) SaveAsync(userKey string, p *domain.Profile) {
	snapshot := p.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		g.Save(ctx, userKey, snapshot)
	}()
}
