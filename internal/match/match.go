// Package match holds the pure answer-matching rules for every exercise
// variant and quiz question kind. Nothing in here mutates state; sessions
// call into it with candidate answers and act on the verdict.
package match

import (
	"strings"

	"github.com/umka-learn/umka/internal/domain"
)

// normalize folds case and trims surrounding whitespace. Pair and blank
// comparison is insensitive to both.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Sequence reports whether the candidate click order is structurally equal
// to the required order. No partial credit.
func Sequence(candidate, correct []string) bool {
	if len(candidate) != len(correct) {
		return false
	}
	for i := range correct {
		if candidate[i] != correct[i] {
			return false
		}
	}
	return true
}

// Pairs reports whether the candidate pair set equals the correct pair set
// up to normalization: same count, every candidate pair present in the
// correct set, every correct pair covered by some candidate.
func Pairs(candidate, correct []domain.Pair) bool {
	if len(candidate) != len(correct) {
		return false
	}
	contains := func(set []domain.Pair, p domain.Pair) bool {
		for _, q := range set {
			if normalize(q.Left) == normalize(p.Left) && normalize(q.Right) == normalize(p.Right) {
				return true
			}
		}
		return false
	}
	for _, p := range candidate {
		if !contains(correct, p) {
			return false
		}
	}
	for _, p := range correct {
		if !contains(candidate, p) {
			return false
		}
	}
	return true
}

// PairAccepted decides whether selecting rightIdx for leftIdx is a correct
// incremental pairing: the chosen right value must equal the value paired
// with the left item in the defining set.
func PairAccepted(defining []domain.Pair, leftIdx, rightIdx int) bool {
	if leftIdx < 0 || leftIdx >= len(defining) || rightIdx < 0 || rightIdx >= len(defining) {
		return false
	}
	return normalize(defining[leftIdx].Right) == normalize(defining[rightIdx].Right)
}

// Blank reports whether a single blank's input matches the expected
// letter or word: case-insensitive, whitespace-trimmed equality.
func Blank(want, input string) bool {
	if normalize(input) == "" {
		return false
	}
	return normalize(input) == normalize(want)
}

// Question grades a quiz answer: case-insensitive comparison against the
// canonical correct answer. An empty answer never matches.
func Question(q *domain.QuizQuestion, answer string) bool {
	if answer == "" {
		return false
	}
	return strings.EqualFold(answer, q.CorrectAnswer())
}

// Exercise evaluates a finalized candidate answer against an exercise
// definition. Fill-blank exercises are graded per blank by the session;
// here a candidate word list is compared group-wise for the generic case.
func Exercise(e *domain.Exercise, candidate domain.Answer) bool {
	switch e.Variant {
	case domain.VariantDragOrder, domain.VariantSequenceOrder:
		return Sequence(candidate.Sequence, e.Answer.Sequence)
	case domain.VariantMatchPairs:
		return Pairs(candidate.PairSet, e.Answer.PairSet)
	case domain.VariantFillBlank:
		if len(candidate.Words) != len(e.Answer.Words) {
			return false
		}
		for i, w := range e.Answer.Words {
			if !Blank(w, candidate.Words[i]) {
				return false
			}
		}
		return len(e.Answer.Words) > 0
	}
	return false
}
