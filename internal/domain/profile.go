package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Points awarded by lesson completion and passed quizzes.
const (
	LessonPointsReward     = 25
	LessonExperienceReward = 50
	QuizPassBonus          = 100
	ExperiencePerPoint     = 2
)

// Achievement is a named milestone unlocked on a profile.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Icon        string `json:"icon"`
}

// OwnedItem records a shop purchase on the profile.
type OwnedItem struct {
	ItemID string `json:"item_id"`
	Used   bool   `json:"used"`
}

// Profile is the user's persistent progress and economy state. It is owned
// exclusively by the running game session; stores only see snapshots.
type Profile struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Avatar           string        `json:"avatar"` // emoji glyph or image URL
	Level            int           `json:"level"`
	Experience       int           `json:"experience"`
	Points           int           `json:"points"`
	Streak           int           `json:"streak"`
	LastActiveDate   time.Time     `json:"last_active_date"`
	CompletedLessons []string      `json:"completed_lessons"`
	Achievements     []Achievement `json:"achievements"`
	OwnedItems       []OwnedItem   `json:"owned_items"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// NewGuestProfile creates the default profile used before sign-in and
// after sign-out.
func NewGuestProfile() *Profile {
	now := time.Now()
	return &Profile{
		ID:               uuid.New().String(),
		Name:             "Guest",
		Avatar:           "👤",
		Level:            1,
		Streak:           1,
		LastActiveDate:   now,
		CompletedLessons: []string{},
		Achievements:     []Achievement{},
		OwnedItems:       []OwnedItem{},
		UpdatedAt:        now,
	}
}

// AddPoints credits earned points. Experience grows at twice the point
// rate. Non-positive amounts are ignored.
func (p *Profile) AddPoints(n int) {
	if n <= 0 {
		return
	}
	p.Points += n
	p.Experience += n * ExperiencePerPoint
	p.UpdatedAt = time.Now()
}

// CompleteLesson records a finished lesson. Repeat completions of the
// same lesson are no-ops, so the reward is granted at most once.
func (p *Profile) CompleteLesson(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return false
		}
	}
	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	p.Experience += LessonExperienceReward
	p.Points += LessonPointsReward
	p.UpdatedAt = time.Now()
	return true
}

// HasCompletedLesson reports whether the lesson was already completed.
func (p *Profile) HasCompletedLesson(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Owns reports whether the item was already purchased.
func (p *Profile) Owns(itemID string) bool {
	for _, item := range p.OwnedItems {
		if item.ItemID == itemID {
			return true
		}
	}
	return false
}

// MarkItemUsed flags an owned item as consumed. Absent or already-used
// items are no-ops.
func (p *Profile) MarkItemUsed(itemID string) bool {
	for i := range p.OwnedItems {
		if p.OwnedItems[i].ItemID == itemID && !p.OwnedItems[i].Used {
			p.OwnedItems[i].Used = true
			p.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// SetAvatar replaces the avatar unconditionally.
func (p *Profile) SetAvatar(avatar string) {
	p.Avatar = avatar
	p.UpdatedAt = time.Now()
}

// UnlockAchievement appends an achievement once, keyed by id.
func (p *Profile) UnlockAchievement(a Achievement) bool {
	for _, have := range p.Achievements {
		if have.ID == a.ID {
			return false
		}
	}
	p.Achievements = append(p.Achievements, a)
	p.UpdatedAt = time.Now()
	return true
}

// RefreshStreak recomputes the daily streak at session start. Exactly one
// calendar day since the last activity extends the streak, the same day
// leaves it unchanged, anything else resets it to 1. Days are local-time
// calendar dates.
func (p *Profile) RefreshStreak(today time.Time) {
	elapsed := daysBetween(p.LastActiveDate, today)
	switch {
	case elapsed == 0:
		// same day, nothing to do
	case elapsed == 1:
		p.Streak++
	default:
		p.Streak = 1
	}
	p.LastActiveDate = today
	p.UpdatedAt = time.Now()
}

func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.Local)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.Local)
	// DST shifts make a calendar day 23 or 25 hours long, so round
	// instead of truncating.
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// Clone returns a deep copy suitable for handing to a snapshot store.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.CompletedLessons = append([]string(nil), p.CompletedLessons...)
	cp.Achievements = append([]Achievement(nil), p.Achievements...)
	cp.OwnedItems = append([]OwnedItem(nil), p.OwnedItems...)
	return &cp
}
