package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/umka-learn/umka/internal/domain"
)

// SnapshotStore persists profile snapshots in SQLite, one row per user
// key. Collection fields are stored as JSON columns.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a SQLite-backed snapshot store.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_key, id, name, avatar, level, experience,
			points, streak, last_active_date, completed_lessons, achievements,
			owned_items, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_key) DO UPDATE SET
			id=excluded.id,
			name=excluded.name,
			avatar=excluded.avatar,
			level=excluded.level,
			experience=excluded.experience,
			points=excluded.points,
			streak=excluded.streak,
			last_active_date=excluded.last_active_date,
			completed_lessons=excluded.completed_lessons,
			achievements=excluded.achievements,
			owned_items=excluded.owned_items,
			updated_at=excluded.updated_at`,
		userKey, p.ID, p.Name, p.Avatar, p.Level, p.Experience,
		p.Points, p.Streak, p.LastActiveDate, string(lessons), string(achievements),
		string(items), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// LoadSnapshot reads the profile for the given user key. A missing row
// is domain.ErrProfileNotFound.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, userKey string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, avatar, level, experience, points, streak,
			last_active_date, completed_lessons, achievements, owned_items,
			updated_at
		FROM profiles WHERE user_key = ?`, userKey)

	var p domain.Profile
	var lessons, achievements, items string
	err := row.Scan(&p.ID, &p.Name, &p.Avatar, &p.Level, &p.Experience,
		&p.Points, &p.Streak, &p.LastActiveDate, &lessons, &achievements,
		&items, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	if err := json.Unmarshal([]byte(lessons), &p.CompletedLessons); err != nil {
		return nil, fmt.Errorf("unmarshal completed_lessons: %w", err)
	}
	if err := json.Unmarshal([]byte(achievements), &p.Achievements); err != nil {
		return nil, fmt.Errorf("unmarshal achievements: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &p.OwnedItems); err != nil {
		return nil, fmt.Errorf("unmarshal owned_items: %w", err)
	}
	return &p, nil
}

// Delete removes the stored snapshot for the given user key.
func (s *SnapshotStore) Delete(ctx context.Context, userKey string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE user_key = ?", userKey)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
