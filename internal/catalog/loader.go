package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/umka-learn/umka/internal/domain"
)

// packFile is the YAML structure of one content pack. A pack may carry
// any mix of subjects, exercises, quizzes and shop items; the registry
// merges all packs under the content directory.
type packFile struct {
	Subjects  []subjectFile  `yaml:"subjects"`
	Exercises []exerciseFile `yaml:"exercises"`
	Quizzes   []quizFile     `yaml:"quizzes"`
	Shop      []shopItemFile `yaml:"shop"`
}

type subjectFile struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Icon        string      `yaml:"icon"`
	Description string      `yaml:"description"`
	Topics      []topicFile `yaml:"topics"`
}

type topicFile struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Order       int          `yaml:"order"`
	Locked      bool         `yaml:"locked"`
	Icon        string       `yaml:"icon"`
	Description string       `yaml:"description"`
	Level       int          `yaml:"level"`
	Lessons     []lessonFile `yaml:"lessons"`
}

type lessonFile struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	Order   int    `yaml:"order"`
}

type exerciseFile struct {
	ID           string `yaml:"id"`
	Variant      string `yaml:"variant"`
	Title        string `yaml:"title"`
	Instructions string `yaml:"instructions"`
	Topic        string `yaml:"topic"`
	Points       int    `yaml:"points"`
	Difficulty   string `yaml:"difficulty"`
	Content      struct {
		Items  []string      `yaml:"items"`
		Pairs  []domain.Pair `yaml:"pairs"`
		Groups []string      `yaml:"groups"`
	} `yaml:"content"`
	Answer struct {
		Sequence []string      `yaml:"sequence"`
		Pairs    []domain.Pair `yaml:"pairs"`
		Words    []string      `yaml:"words"`
	} `yaml:"answer"`
}

type quizFile struct {
	ID               string         `yaml:"id"`
	Title            string         `yaml:"title"`
	Subject          string         `yaml:"subject"`
	Topic            string         `yaml:"topic"`
	TimeLimitMinutes int            `yaml:"time_limit_minutes"`
	PassingScore     int            `yaml:"passing_score"`
	Questions        []questionFile `yaml:"questions"`
}

type questionFile struct {
	ID          string   `yaml:"id"`
	Prompt      string   `yaml:"prompt"`
	Kind        string   `yaml:"kind"`
	Options     []string `yaml:"options"`
	Answers     []string `yaml:"answers"`
	Explanation string   `yaml:"explanation"`
	Points      int      `yaml:"points"`
	Difficulty  string   `yaml:"difficulty"`
}

type shopItemFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Kind        string `yaml:"kind"`
	Price       int    `yaml:"price"`
	XPPrice     int    `yaml:"xp_price"`
}

// Loader reads content packs from a directory of YAML files.
type Loader struct {
	basePath string
}

// NewLoader creates a loader rooted at the given content directory.
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// loadAll parses every *.yaml / *.yml file directly under the content
// directory and merges the results.
func (l *Loader) loadAll() (*packFile, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	merged := &packFile{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		pack, err := l.loadFile(filepath.Join(l.basePath, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load pack %s: %w", entry.Name(), err)
		}
		merged.Subjects = append(merged.Subjects, pack.Subjects...)
		merged.Exercises = append(merged.Exercises, pack.Exercises...)
		merged.Quizzes = append(merged.Quizzes, pack.Quizzes...)
		merged.Shop = append(merged.Shop, pack.Shop...)
	}
	return merged, nil
}

func (l *Loader) loadFile(path string) (*packFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack file: %w", err)
	}
	var pack packFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse pack file: %w", err)
	}
	return &pack, nil
}

func (f *exerciseFile) toDomain() *domain.Exercise {
	ex := &domain.Exercise{
		ID:           f.ID,
		Variant:      domain.Variant(f.Variant),
		Title:        f.Title,
		Instructions: f.Instructions,
		TopicID:      f.Topic,
		Points:       f.Points,
		Difficulty:   domain.Difficulty(f.Difficulty),
	}
	switch ex.Variant {
	case domain.VariantDragOrder, domain.VariantSequenceOrder:
		ex.Content.Order = &domain.OrderContent{Items: f.Content.Items}
		ex.Answer.Sequence = f.Answer.Sequence
	case domain.VariantMatchPairs:
		ex.Content.Pairs = &domain.PairsContent{Pairs: f.Content.Pairs}
		ex.Answer.PairSet = f.Answer.Pairs
		if len(ex.Answer.PairSet) == 0 {
			// defining pairs double as the answer when none is given
			ex.Answer.PairSet = f.Content.Pairs
		}
	case domain.VariantFillBlank:
		ex.Content.Blanks = &domain.BlankContent{Groups: f.Content.Groups}
		ex.Answer.Words = f.Answer.Words
	}
	return ex
}

func (f *quizFile) toDomain() *domain.Quiz {
	quiz := &domain.Quiz{
		ID:               f.ID,
		Title:            f.Title,
		SubjectID:        f.Subject,
		TopicID:          f.Topic,
		TimeLimitMinutes: f.TimeLimitMinutes,
		PassingScore:     f.PassingScore,
		Questions:        make([]domain.QuizQuestion, len(f.Questions)),
	}
	for i, q := range f.Questions {
		quiz.Questions[i] = domain.QuizQuestion{
			ID:          q.ID,
			Prompt:      q.Prompt,
			Kind:        domain.QuestionKind(q.Kind),
			Options:     q.Options,
			Answers:     q.Answers,
			Explanation: q.Explanation,
			Points:      q.Points,
			Difficulty:  domain.Difficulty(q.Difficulty),
		}
	}
	return quiz
}

func (f *subjectFile) toDomain() domain.Subject {
	subject := domain.Subject{
		ID:          f.ID,
		Name:        f.Name,
		Icon:        f.Icon,
		Description: f.Description,
		Topics:      make([]domain.Topic, len(f.Topics)),
	}
	for i, t := range f.Topics {
		topic := domain.Topic{
			ID:          t.ID,
			Name:        t.Name,
			SubjectID:   f.ID,
			Order:       t.Order,
			Locked:      t.Locked,
			Icon:        t.Icon,
			Description: t.Description,
			Level:       t.Level,
			Lessons:     make([]domain.Lesson, len(t.Lessons)),
		}
		for j, lesson := range t.Lessons {
			topic.Lessons[j] = domain.Lesson{
				ID:        lesson.ID,
				Title:     lesson.Title,
				Content:   lesson.Content,
				SubjectID: f.ID,
				TopicID:   t.ID,
				Order:     lesson.Order,
			}
		}
		subject.Topics[i] = topic
	}
	return subject
}

func (f *shopItemFile) toDomain() domain.ShopItem {
	kind := domain.ItemKind(f.Kind)
	if kind == "" {
		kind = domain.ItemKindStandard
	}
	return domain.ShopItem{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Icon:        f.Icon,
		Kind:        kind,
		Price:       f.Price,
		XPPrice:     f.XPPrice,
	}
}
