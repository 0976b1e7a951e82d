// Package postgres is the remote snapshot tier, used when a shared
// profile store is configured. Failures here are expected and absorbed
// by the persistence gateway.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umka-learn/umka/internal/domain"
)

// SnapshotStore persists profile snapshots in PostgreSQL.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

// NewSnapshotStore creates a PostgreSQL-backed snapshot store.
func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Connect opens a pgx pool for the given database URL and verifies
// connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the profiles table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			user_key          TEXT PRIMARY KEY,
			id                TEXT NOT NULL,
			name              TEXT NOT NULL,
			avatar            TEXT NOT NULL DEFAULT '',
			level             INTEGER NOT NULL DEFAULT 1,
			experience        INTEGER NOT NULL DEFAULT 0,
			points            INTEGER NOT NULL DEFAULT 0,
			streak            INTEGER NOT NULL DEFAULT 1,
			last_active_date  TIMESTAMPTZ NOT NULL,
			completed_lessons JSONB NOT NULL DEFAULT '[]',
			achievements      JSONB NOT NULL DEFAULT '[]',
			owned_items       JSONB NOT NULL DEFAULT '[]',
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure profiles table: %w", err)
	}
	return nil
}

// SaveSnapshot upserts the profile for the given user key.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, userKey string, p *domain.Profile) error {
	lessons, err := json.Marshal(p.CompletedLessons)
	if err != nil {
		return fmt.Errorf("marshal completed_lessons: %w", err)
	}
	achievements, err := json.Marshal(p.Achievements)
	if err != nil {
		return fmt.Errorf("marshal achievements: %w", err)
	}
	items, err := json.Marshal(p.OwnedItems)
	if err != nil {
		return fmt.Errorf("marshal owned_items: %w", err)
	}

	query := `
		INSERT INTO profiles (user_key, id, name, avatar, level, experience,
			points, streak, last_active_date, completed_lessons, achievements,
			owned_items, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (user_key) DO UPDATE SET
			id = excluded.id,
			name = excluded.name,
			avatar = excluded.avatar,
			level = excluded.level,
			experience = excluded.experience,
			points = excluded.points,
			streak = excluded.streak,
			last_active_date = excluded.last_active_date,
			completed_lessons = excluded.completed_lessons,
			achievements = excluded.achievements,
			owned_items = excluded.owned_items,
			updated_at = now()`
	_, err = s.pool.Exec(ctx, query,
		userKey, p.ID, p.Name, p.Avatar, p.Level, p.Experience,
		p.Points, p.Streak, p.LastActiveDate, lessons, achievements, items,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// LoadSnapshot reads the profile for the given user key. A missing row
// is domain.ErrProfileNotFound.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, userKey string) (*domain.Profile, error) {
	query := `
		SELECT id, name, avatar, level, experience, points, streak,
			last_active_date, completed_lessons, achievements, owned_items,
			updated_at
		FROM profiles WHERE user_key = $1`

	var p domain.Profile
	var lessons, achievements, items []byte
	err := s.pool.QueryRow(ctx, query, userKey).Scan(
		&p.ID, &p.Name, &p.Avatar, &p.Level, &p.Experience,
		&p.Points, &p.Streak, &p.LastActiveDate, &lessons, &achievements,
		&items, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	if err := json.Unmarshal(lessons, &p.CompletedLessons); err != nil {
		return nil, fmt.Errorf("unmarshal completed_lessons: %w", err)
	}
	if err := json.Unmarshal(achievements, &p.Achievements); err != nil {
		return nil, fmt.Errorf("unmarshal achievements: %w", err)
	}
	if err := json.Unmarshal(items, &p.OwnedItems); err != nil {
		return nil, fmt.Errorf("unmarshal owned_items: %w", err)
	}
	return &p, nil
}

// Delete removes the stored snapshot for the given user key.
func (s *SnapshotStore) Delete(ctx context.Context, userKey string) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM profiles WHERE user_key = $1", userKey)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
