package catalog

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/umka-learn/umka/internal/domain"
)

// Registry is the in-memory content catalog. Content is immutable after
// Load; all query results are shared references the caller must not
// mutate.
type Registry struct {
	loader *Loader

	mu             sync.RWMutex
	subjects       []domain.Subject
	exercises      map[string]*domain.Exercise
	exercisesOrder []*domain.Exercise
	quizzes        map[string]*domain.Quiz
	quizzesOrder   []*domain.Quiz
	lessons        map[string]*domain.Lesson
	topics         map[string]*domain.Topic
	shop           []domain.ShopItem
	loaded         bool
}

// NewRegistry creates a registry backed by the given loader.
func NewRegistry(loader *Loader) *Registry {
	return &Registry{
		loader:    loader,
		exercises: make(map[string]*domain.Exercise),
		quizzes:   make(map[string]*domain.Quiz),
		lessons:   make(map[string]*domain.Lesson),
		topics:    make(map[string]*domain.Topic),
	}
}

// Load reads all content packs into memory, replacing any previous
// content.
func (r *Registry) Load() error {
	pack, err := r.loader.loadAll()
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.subjects = make([]domain.Subject, 0, len(pack.Subjects))
	r.exercises = make(map[string]*domain.Exercise)
	r.exercisesOrder = r.exercisesOrder[:0]
	r.quizzes = make(map[string]*domain.Quiz)
	r.quizzesOrder = r.quizzesOrder[:0]
	r.lessons = make(map[string]*domain.Lesson)
	r.topics = make(map[string]*domain.Topic)
	r.shop = make([]domain.ShopItem, 0, len(pack.Shop))

	for i := range pack.Subjects {
		subject := pack.Subjects[i].toDomain()
		r.subjects = append(r.subjects, subject)
		s := &r.subjects[len(r.subjects)-1]
		for j := range s.Topics {
			topic := &s.Topics[j]
			r.topics[topic.ID] = topic
			for k := range topic.Lessons {
				r.lessons[topic.Lessons[k].ID] = &topic.Lessons[k]
			}
		}
	}
	for i := range pack.Exercises {
		ex := pack.Exercises[i].toDomain()
		r.exercises[ex.ID] = ex
		r.exercisesOrder = append(r.exercisesOrder, ex)
	}
	for i := range pack.Quizzes {
		quiz := pack.Quizzes[i].toDomain()
		r.quizzes[quiz.ID] = quiz
		r.quizzesOrder = append(r.quizzesOrder, quiz)
	}
	for i := range pack.Shop {
		r.shop = append(r.shop, pack.Shop[i].toDomain())
	}

	r.loaded = true
	return nil
}

// Subjects returns all subjects in pack order.
func (r *Registry) Subjects() []domain.Subject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.subjects
}

// Topic looks up a topic by id.
func (r *Registry) Topic(id string) (*domain.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topic, ok := r.topics[id]
	if !ok {
		return nil, domain.ErrTopicNotFound
	}
	return topic, nil
}

// Lesson looks up a lesson by id.
func (r *Registry) Lesson(id string) (*domain.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lesson, ok := r.lessons[id]
	if !ok {
		return nil, domain.ErrLessonNotFound
	}
	return lesson, nil
}

// ExerciseByID looks up an exercise by id.
func (r *Registry) ExerciseByID(id string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.exercises[id]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	return ex, nil
}

// ExercisesByTopic returns the topic's exercises in pack order. An
// unknown topic yields an empty slice, not an error.
func (r *Registry) ExercisesByTopic(topicID string) []*domain.Exercise {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Exercise
	for _, ex := range r.exercisesOrder {
		if ex.TopicID == topicID {
			out = append(out, ex)
		}
	}
	return out
}

// RandomExercise draws uniformly from the topic's exercises, or from the
// whole catalog when topicID is empty. An empty pool yields the fixed
// fallback exercise so callers always have something to present.
func (r *Registry) RandomExercise(topicID string, rng *rand.Rand) *domain.Exercise {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool := r.exercisesOrder
	if topicID != "" {
		pool = nil
		for _, ex := range r.exercisesOrder {
			if ex.TopicID == topicID {
				pool = append(pool, ex)
			}
		}
	}
	if len(pool) == 0 {
		return FallbackExercise()
	}
	return pool[rng.Intn(len(pool))]
}

// QuizzesByTopic returns the topic's quizzes in pack order. An unknown
// topic yields an empty slice.
func (r *Registry) QuizzesByTopic(topicID string) []*domain.Quiz {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Quiz
	for _, quiz := range r.quizzesOrder {
		if quiz.TopicID == topicID {
			out = append(out, quiz)
		}
	}
	return out
}

// QuizByID looks up a quiz by id.
func (r *Registry) QuizByID(id string) (*domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// ShopItems returns the purchasable catalog in pack order.
func (r *Registry) ShopItems() []domain.ShopItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shop
}

// FallbackExercise is presented when a random draw finds an empty
// catalog.
func FallbackExercise() *domain.Exercise {
	return &domain.Exercise{
		ID:           "fallback-count",
		Variant:      domain.VariantSequenceOrder,
		Title:        "Палічы",
		Instructions: "Расстаў лічбы па парадку",
		Points:       5,
		Difficulty:   domain.DifficultyEasy,
		Content:      domain.Content{Order: &domain.OrderContent{Items: []string{"1", "2", "3"}}},
		Answer:       domain.Answer{Sequence: []string{"1", "2", "3"}},
	}
}
