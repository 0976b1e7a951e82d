// Package events publishes progress events to RabbitMQ. Publishing is
// strictly fire-and-forget: gameplay never waits on the broker and a
// publish failure is logged, not surfaced.
package events

import (
	"time"

	"github.com/google/uuid"
)

// ProgressQueueName is the queue progress events are published to.
const ProgressQueueName = "umka.progress"

// Type identifies what kind of progress an event records.
type Type string

const (
	TypeExerciseCompleted Type = "exercise_completed"
	TypeQuizCompleted     Type = "quiz_completed"
	TypeLessonCompleted   Type = "lesson_completed"
	TypeItemPurchased     Type = "item_purchased"
)

// ProgressEvent is one unit of recorded learning progress.
type ProgressEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	ProfileID  string    `json:"profile_id"`
	RefID      string    `json:"ref_id"` // exercise, quiz, lesson or item id
	Score      int       `json:"score,omitempty"`
	Passed     bool      `json:"passed,omitempty"`
	Points     int       `json:"points"`
	Experience int       `json:"experience"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProgressEvent builds an event with id and timestamp filled in.
func NewProgressEvent(t Type, profileID, refID string) *ProgressEvent {
	return &ProgressEvent{
		ID:         uuid.New(),
		Type:       t,
		ProfileID:  profileID,
		RefID:      refID,
		OccurredAt: time.Now(),
	}
}
