package domain

// QuestionKind identifies how a quiz question is answered.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindFillBlank      QuestionKind = "fill-blank"
	KindFreeResponse   QuestionKind = "free-response"
	KindTrueFalse      QuestionKind = "true-false"
)

// QuizQuestion is a single graded question within a quiz.
type QuizQuestion struct {
	ID          string
	Prompt      string
	Kind        QuestionKind
	Options     []string // multiple-choice only
	Answers     []string // accepted answers; the first is canonical
	Explanation string
	Points      int
	Difficulty  Difficulty
}

// CorrectAnswer returns the canonical correct answer string.
func (q *QuizQuestion) CorrectAnswer() string {
	if len(q.Answers) == 0 {
		return ""
	}
	return q.Answers[0]
}

// Quiz is an ordered sequence of graded questions with a pass threshold.
type Quiz struct {
	ID               string
	Title            string
	SubjectID        string
	TopicID          string
	Questions        []QuizQuestion
	TimeLimitMinutes int // 0 means untimed
	PassingScore     int
}

// TotalPoints returns the maximum achievable score.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}
