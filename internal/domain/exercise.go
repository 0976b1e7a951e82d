package domain

// Variant identifies the interaction style of an exercise. Each variant
// carries exactly one payload in Exercise.Content and one answer shape in
// Exercise.Answer.
type Variant string

const (
	VariantDragOrder     Variant = "drag-order"
	VariantMatchPairs    Variant = "match-pairs"
	VariantSequenceOrder Variant = "sequence-order"
	VariantFillBlank     Variant = "fill-blank"
)

// Difficulty represents exercise difficulty level
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Pair is one left/right association in a match-pairs exercise.
type Pair struct {
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`
}

// OrderContent holds the items of a drag-order or sequence-order exercise,
// in display order.
type OrderContent struct {
	Items []string `json:"items"`
}

// PairsContent holds the defining pairs of a match-pairs exercise.
type PairsContent struct {
	Pairs []Pair `json:"pairs"`
}

// BlankContent holds the template groups of a fill-blank exercise. Each
// group is literal text interleaved with ".." placeholders marking single
// missing letters ("Т..рапеўт").
type BlankContent struct {
	Groups []string `json:"groups"`
}

// Content is the variant-specific payload of an exercise. Exactly one
// field is set, matching the exercise variant.
type Content struct {
	Order  *OrderContent `json:"order,omitempty"`
	Pairs  *PairsContent `json:"pairs,omitempty"`
	Blanks *BlankContent `json:"blanks,omitempty"`
}

// Answer is the variant-specific correct answer. Exactly one field is set.
//
//   - drag-order / sequence-order: Sequence, the items in required order
//   - match-pairs: PairSet, the correct associations (order irrelevant)
//   - fill-blank: Words, one full correct word per template group
type Answer struct {
	Sequence []string `json:"sequence,omitempty"`
	PairSet  []Pair   `json:"pairs,omitempty"`
	Words    []string `json:"words,omitempty"`
}

// Exercise represents a single interactive scoring unit. Exercises are
// immutable catalog content; sessions never modify them.
type Exercise struct {
	ID           string
	Variant      Variant
	Title        string
	Instructions string
	TopicID      string
	Content      Content
	Answer       Answer
	Points       int
	Difficulty   Difficulty
}

// ItemCount returns the number of interactive elements the exercise
// presents. Malformed content counts as zero rather than failing.
func (e *Exercise) ItemCount() int {
	switch e.Variant {
	case VariantDragOrder, VariantSequenceOrder:
		if e.Content.Order == nil {
			return 0
		}
		return len(e.Content.Order.Items)
	case VariantMatchPairs:
		if e.Content.Pairs == nil {
			return 0
		}
		return len(e.Content.Pairs.Pairs)
	case VariantFillBlank:
		if e.Content.Blanks == nil {
			return 0
		}
		return len(e.Content.Blanks.Groups)
	}
	return 0
}
