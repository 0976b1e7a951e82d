package domain

// Lesson is a unit of reading material within a topic.
type Lesson struct {
	ID        string
	Title     string
	Content   string
	SubjectID string
	TopicID   string
	Order     int
}

// Topic groups lessons, quizzes and exercises under a subject.
type Topic struct {
	ID          string
	Name        string
	SubjectID   string
	Order       int
	Locked      bool
	Icon        string
	Description string
	Level       int
	Lessons     []Lesson
}

// Subject is a top-level area of study.
type Subject struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Topics      []Topic
}
