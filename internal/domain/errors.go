package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by stores and
// services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Catalog errors
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrItemNotFound     = errors.New("shop item not found")
)

// Ledger errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyOwned      = errors.New("item already owned")
)

// Session errors
var (
	ErrSessionCompleted = errors.New("session already completed")
)

// Persistence errors
var (
	ErrProfileNotFound = errors.New("profile not found")
)
