package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Producer publishes progress events to the queue.
type Producer struct {
	conn *Connection
}

// NewProducer creates a producer over an open connection.
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// Publish sends one progress event, filling id and timestamp defaults.
func (p *Producer) Publish(ctx context.Context, event *ProgressEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := p.conn.PublishJSON(ctx, ProgressQueueName, event); err != nil {
		return fmt.Errorf("publish progress event: %w", err)
	}
	return nil
}

// ExerciseCompleted publishes an exercise completion.
func (p *Producer) ExerciseCompleted(ctx context.Context, profileID, exerciseID string, score int) error {
	event := NewProgressEvent(TypeExerciseCompleted, profileID, exerciseID)
	event.Score = score
	return p.Publish(ctx, event)
}

// QuizCompleted publishes a quiz finalization.
func (p *Producer) QuizCompleted(ctx context.Context, profileID, quizID string, score int, passed bool) error {
	event := NewProgressEvent(TypeQuizCompleted, profileID, quizID)
	event.Score = score
	event.Passed = passed
	return p.Publish(ctx, event)
}

// LessonCompleted publishes a first-time lesson completion.
func (p *Producer) LessonCompleted(ctx context.Context, profileID, lessonID string) error {
	return p.Publish(ctx, NewProgressEvent(TypeLessonCompleted, profileID, lessonID))
}

// ItemPurchased publishes a successful shop transaction.
func (p *Producer) ItemPurchased(ctx context.Context, profileID, itemID string, cost int) error {
	event := NewProgressEvent(TypeItemPurchased, profileID, itemID)
	event.Points = cost
	return p.Publish(ctx, event)
}
