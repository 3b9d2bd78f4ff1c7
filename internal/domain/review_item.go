package domain

import "time"

// MemoryState is the discrete retention bucket of a review item.
// States are ordered from weakest to strongest retention.
type MemoryState string

const (
	StateNew      MemoryState = "new"
	StateLearning MemoryState = "learning"
	StateWeak     MemoryState = "weak"
	StateStrong   MemoryState = "strong"
	StateMastered MemoryState = "mastered"
)

// AllStates lists memory states in ascending retention order.
var AllStates = []MemoryState{StateNew, StateLearning, StateWeak, StateStrong, StateMastered}

// Strength thresholds for state bucketing. A state applies when
// memory strength is at or above its threshold.
const (
	ThresholdLearning = 0.3
	ThresholdWeak     = 0.5
	ThresholdStrong   = 0.7
	ThresholdMastered = 0.9
)

// StateForStrength derives the memory state from a strength value.
// State is never stored independently - it is always recomputed from
// strength so the two cannot drift apart.
func StateForStrength(strength float64) MemoryState {
	switch {
	case strength >= ThresholdMastered:
		return StateMastered
	case strength >= ThresholdStrong:
		return StateStrong
	case strength >= ThresholdWeak:
		return StateWeak
	case strength >= ThresholdLearning:
		return StateLearning
	default:
		return StateNew
	}
}

// DefaultDecayRate is the per-item forgetting-speed parameter applied
// to items created without an explicit rate.
const DefaultDecayRate = 0.3

// ReviewItem tracks one user's memory of one word. It is created the
// first time a user meets a word and mutated by every answered review.
type ReviewItem struct {
	ID     int64
	UserID int64
	WordID int64

	MemoryStrength float64
	MemoryState    MemoryState

	// DecayRate in [0,1]; higher values shorten review intervals.
	DecayRate float64

	TotalReviews       int
	CorrectReviews     int
	ConsecutiveCorrect int
	AvgResponseTime    float64

	FirstSeen    time.Time
	LastReviewed *time.Time
	NextReview   time.Time
}

// IsDue reports whether the item should be offered for review.
// Mastered items are never due.
func (ri *ReviewItem) IsDue(now time.Time) bool {
	return ri.MemoryState != StateMastered && !ri.NextReview.After(now)
}

// ItemCounts holds the per-user aggregates the introduction-gating
// policy consumes.
type ItemCounts struct {
	Total    int
	New      int
	Mastered int
}
