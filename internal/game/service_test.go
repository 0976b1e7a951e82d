package game

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/umka-learn/umka/internal/catalog"
	"github.com/umka-learn/umka/internal/domain"
	"github.com/umka-learn/umka/internal/gateway"
)

const testContent = `
subjects:
  - id: belarusian
    name: Беларуская мова
    topics:
      - id: grammar
        name: Граматыка
        lessons:
          - id: grammar-e
            title: Літара Э

exercises:
  - id: grammar-e-blanks
    variant: fill-blank
    topic: grammar
    points: 10
    content:
      groups: ["Т..рапеўт"]
    answer:
      words: ["тэрапеўт"]

quizzes:
  - id: grammar-quiz
    topic: grammar
    passing_score: 10
    questions:
      - id: q1
        prompt: "?"
        answers: ["тэрапеўт"]
        points: 10

shop:
  - id: hat
    name: Капялюш
    price: 80
`

type memStore struct {
	mu    sync.Mutex
	data  map[string]*domain.Profile
	saved chan struct{}
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]*domain.Profile), saved: make(chan struct{}, 32)}
}

func (m *memStore) SaveSnapshot(_ context.Context, key string, p *domain.Profile) error {
	m.mu.Lock()
	m.data[key] = p.Clone()
	m.mu.Unlock()
	select {
	case m.saved <- struct{}{}:
	default:
	}
	return nil
}

func (m *memStore) LoadSnapshot(_ context.Context, key string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[key]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p.Clone(), nil
}

type recordedEvent struct {
	kind  string
	refID string
	score int
}

type memPublisher struct {
	events chan recordedEvent
}

func newMemPublisher() *memPublisher {
	return &memPublisher{events: make(chan recordedEvent, 32)}
}

func (m *memPublisher) ExerciseCompleted(_ context.Context, _, exerciseID string, score int) error {
	m.events <- recordedEvent{"exercise", exerciseID, score}
	return nil
}

func (m *memPublisher) QuizCompleted(_ context.Context, _, quizID string, score int, _ bool) error {
	m.events <- recordedEvent{"quiz", quizID, score}
	return nil
}

func (m *memPublisher) LessonCompleted(_ context.Context, _, lessonID string) error {
	m.events <- recordedEvent{"lesson", lessonID, 0}
	return nil
}

func (m *memPublisher) ItemPurchased(_ context.Context, _, itemID string, cost int) error {
	m.events <- recordedEvent{"purchase", itemID, cost}
	return nil
}

func (m *memPublisher) next(t *testing.T) recordedEvent {
	t.Helper()
	select {
	case e := <-m.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
		return recordedEvent{}
	}
}

func testService(t *testing.T) (*Service, *memStore, *memPublisher) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte(testContent), 0o644); err != nil {
		t.Fatal(err)
	}
	registry := catalog.NewRegistry(catalog.NewLoader(dir))
	if err := registry.Load(); err != nil {
		t.Fatalf("catalog load: %v", err)
	}

	store := newMemStore()
	publisher := newMemPublisher()
	svc := NewService(Config{
		Catalog: registry,
		Gateway: gateway.New(nil, store, nil),
		Events:  publisher,
		Rand:    rand.New(rand.NewSource(1)),
	})
	return svc, store, publisher
}

func waitSave(t *testing.T, store *memStore) {
	t.Helper()
	select {
	case <-store.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot save never landed")
	}
}

func TestService_StartSessionFreshGuest(t *testing.T) {
	svc, store, _ := testService(t)

	p := svc.StartSession(context.Background(), "alesya")
	if p.Name != "Guest" || p.Streak != 1 {
		t.Errorf("profile = %s streak %d, want fresh guest", p.Name, p.Streak)
	}
	waitSave(t, store)
}

func TestService_StartSessionHydratesAndRefreshesStreak(t *testing.T) {
	svc, store, _ := testService(t)
	ctx := context.Background()

	yesterday := domain.NewGuestProfile()
	yesterday.Name = "Алеся"
	yesterday.Streak = 3
	yesterday.LastActiveDate = time.Now().AddDate(0, 0, -1)
	store.SaveSnapshot(ctx, "alesya", yesterday)

	p := svc.StartSession(ctx, "alesya")
	if p.Name != "Алеся" {
		t.Errorf("name = %s, want the stored profile", p.Name)
	}
	if p.Streak != 4 {
		t.Errorf("streak = %d, want 4 after one elapsed day", p.Streak)
	}
}

func TestService_ExerciseCompleted(t *testing.T) {
	svc, store, publisher := testService(t)
	svc.StartSession(context.Background(), "k")
	waitSave(t, store)

	svc.ExerciseCompleted("grammar-e-blanks", 10)
	p := svc.Profile()
	if p.Points != 10 || p.Experience != 20 {
		t.Errorf("points/xp = %d/%d, want 10/20", p.Points, p.Experience)
	}

	e := publisher.next(t)
	if e.kind != "exercise" || e.refID != "grammar-e-blanks" || e.score != 10 {
		t.Errorf("event = %+v", e)
	}
	waitSave(t, store)
}

func TestService_QuizCompletedBonus(t *testing.T) {
	svc, _, publisher := testService(t)
	svc.StartSession(context.Background(), "k")

	svc.QuizCompleted("grammar-quiz", 10, true)
	if p := svc.Profile(); p.Points != domain.QuizPassBonus {
		t.Errorf("points = %d, want the fixed %d pass bonus regardless of quiz score", p.Points, domain.QuizPassBonus)
	}
	publisher.next(t)

	svc.QuizCompleted("grammar-quiz", 5, false)
	if p := svc.Profile(); p.Points != domain.QuizPassBonus {
		t.Errorf("points = %d: a failed quiz earns nothing", p.Points)
	}
}

func TestService_QuizSessionCreditsOnFinalize(t *testing.T) {
	svc, _, _ := testService(t)
	svc.StartSession(context.Background(), "k")

	session, err := svc.NewQuizSession("grammar-quiz")
	if err != nil {
		t.Fatalf("NewQuizSession: %v", err)
	}
	session.Answer("q1", "тэрапеўт")
	res := session.Finalize()
	if !res.Passed {
		t.Fatalf("result = %+v, want passed", res)
	}
	if p := svc.Profile(); p.Points != domain.QuizPassBonus {
		t.Errorf("points = %d, want %d credited through the completion callback", p.Points, domain.QuizPassBonus)
	}
}

func TestService_LessonCompletedIdempotent(t *testing.T) {
	svc, _, publisher := testService(t)
	svc.StartSession(context.Background(), "k")

	svc.LessonCompleted("grammar-e")
	p := svc.Profile()
	if p.Points != domain.LessonPointsReward || p.Experience != domain.LessonExperienceReward {
		t.Errorf("points/xp = %d/%d, want %d/%d", p.Points, p.Experience,
			domain.LessonPointsReward, domain.LessonExperienceReward)
	}
	publisher.next(t)

	svc.LessonCompleted("grammar-e")
	if p.Points != domain.LessonPointsReward {
		t.Error("repeat completion must not award again")
	}
	select {
	case e := <-publisher.events:
		t.Errorf("repeat completion published %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestService_Purchase(t *testing.T) {
	svc, _, publisher := testService(t)
	svc.StartSession(context.Background(), "k")
	svc.Profile().Points = 100

	msg, err := svc.Purchase("hat", false)
	if err != nil {
		t.Fatalf("Purchase: %v (%s)", err, msg)
	}
	if p := svc.Profile(); p.Points != 20 || !p.Owns("hat") {
		t.Errorf("points = %d owns = %v, want 20/true", p.Points, p.Owns("hat"))
	}

	e := publisher.next(t)
	if e.kind != "purchase" || e.refID != "hat" || e.score != 80 {
		t.Errorf("event = %+v", e)
	}

	if _, err := svc.Purchase("hat", false); err != domain.ErrAlreadyOwned {
		t.Errorf("err = %v, want ErrAlreadyOwned", err)
	}
}

func TestService_SignOut(t *testing.T) {
	svc, _, _ := testService(t)
	svc.StartSession(context.Background(), "k")
	svc.Profile().Points = 500

	p := svc.SignOut()
	if p.Points != 0 || p.Name != "Guest" {
		t.Errorf("profile after sign-out = %+v, want a fresh guest", p)
	}
}

func TestService_NewExerciseSessionUnknown(t *testing.T) {
	svc, _, _ := testService(t)
	if _, err := svc.NewExerciseSession("nope"); err != domain.ErrExerciseNotFound {
		t.Errorf("err = %v, want ErrExerciseNotFound", err)
	}
}

func TestService_MarkItemUsedAndAvatar(t *testing.T) {
	svc, _, _ := testService(t)
	svc.StartSession(context.Background(), "k")
	svc.Profile().Points = 100
	svc.Purchase("hat", false)

	svc.MarkItemUsed("hat")
	if !svc.Profile().OwnedItems[0].Used {
		t.Error("item not marked used")
	}

	svc.SetAvatar("🦉")
	if svc.Profile().Avatar != "🦉" {
		t.Error("avatar not replaced")
	}
}

func TestService_ConcurrentCreditsAndPurchase(t *testing.T) {
	svc, _, _ := testService(t)
	svc.Profile().Points = 80

	// a timed quiz finalizing on its timer goroutine credits the ledger
	// while the main goroutine shops; the totals must not lose updates
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.ExerciseCompleted("grammar-e-blanks", 10)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.Purchase("hat", false)
	}()
	wg.Wait()

	p := svc.Profile()
	if p.Points != 80+20*10-80 {
		t.Errorf("points = %d, want %d", p.Points, 80+20*10-80)
	}
	if p.Experience != 20*10*domain.ExperiencePerPoint {
		t.Errorf("experience = %d, want %d", p.Experience, 20*10*domain.ExperiencePerPoint)
	}
	if !p.Owns("hat") {
		t.Error("purchase lost under concurrent credits")
	}
}
