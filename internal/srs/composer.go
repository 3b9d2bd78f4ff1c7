package srs

import (
	"math/rand"

	"wortschatz/internal/domain"
)

// Session composition policy.
const (
	// SessionCap is the hard upper bound on items per session.
	SessionCap = 10
	// SessionFloor is the minimum session size to aim for when any
	// new candidates exist at all.
	SessionFloor = 5

	maxWeakSlots     = 5
	maxLearningSlots = 3
	maxOtherSlots    = 2

	// dueBacklogLimit stops new-word introduction when this many
	// reviews are already pending.
	dueBacklogLimit = 8
	// newBacklogLimit caps the number of unreviewed items a user may
	// accumulate before introduction pauses.
	newBacklogLimit = 5
	// masteryCeiling: once this share of the user's items is mastered,
	// no new words are introduced.
	masteryCeiling = 0.3
)

// StateLookup resolves a review item ID to its memory state. IDs with
// no backing record report ok=false and are skipped by the composer.
type StateLookup interface {
	ItemState(id int64) (domain.MemoryState, bool)
}

// StateMap is a map-backed StateLookup.
type StateMap map[int64]domain.MemoryState

// ItemState implements StateLookup.
func (m StateMap) ItemState(id int64) (domain.MemoryState, bool) {
	state, ok := m[id]
	return state, ok
}

// Composer assembles bounded practice sessions and decides when new
// words may be introduced. The random source is injected so session
// ordering stays deterministic under test.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a composer drawing from the given random source.
func NewComposer(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// ShouldIntroduceNew decides whether fresh words may enter the session.
// Rules are evaluated in order, first match wins.
func (c *Composer) ShouldIntroduceNew(counts domain.ItemCounts, dueCount int) bool {
	// A brand-new user always gets bootstrapped.
	if counts.Total == 0 {
		return true
	}
	// Don't pile new material onto a large review backlog.
	if dueCount >= dueBacklogLimit {
		return false
	}
	// Cap the unreviewed backlog.
	if counts.New > newBacklogLimit {
		return false
	}
	if counts.Total > 0 {
		ratio := float64(counts.Mastered) / float64(counts.Total)
		return ratio < masteryCeiling
	}
	// Unreachable given the first rule, kept as a safe default.
	return true
}

// BuildSession merges due reviews and new candidates into one shuffled
// session of at most SessionCap item IDs. Due items are partitioned by
// state and taken weak-first since those are closest to being
// forgotten; new IDs fill the remaining capacity in the order supplied
// (the upstream selector already ranks them by curriculum priority).
// Returns an empty slice only when both inputs are empty.
func (c *Composer) BuildSession(dueIDs, newIDs []int64, lookup StateLookup) []int64 {
	var weak, learning, other []int64
	for _, id := range dueIDs {
		state, ok := lookup.ItemState(id)
		if !ok {
			continue
		}
		switch state {
		case domain.StateWeak:
			weak = append(weak, id)
		case domain.StateLearning:
			learning = append(learning, id)
		default:
			other = append(other, id)
		}
	}

	session := make([]int64, 0, SessionCap)
	session = append(session, takeUpTo(weak, maxWeakSlots)...)
	session = append(session, takeUpTo(learning, maxLearningSlots)...)
	session = append(session, takeUpTo(other, maxOtherSlots)...)

	newUsed := 0
	if remaining := SessionCap - len(session); remaining > 0 {
		added := takeUpTo(newIDs, remaining)
		session = append(session, added...)
		newUsed = len(added)
	}

	// Top up to the session floor from spare new candidates.
	if len(session) < SessionFloor && newUsed < len(newIDs) {
		session = append(session, takeUpTo(newIDs[newUsed:], SessionFloor-len(session))...)
	}

	c.rng.Shuffle(len(session), func(i, j int) {
		session[i], session[j] = session[j], session[i]
	})

	return session
}

// SelectExerciseWeights picks the weighted exercise-type table suited
// to an item's memory state and answer history. The caller performs
// the categorical draw; this only selects the table.
func (c *Composer) SelectExerciseWeights(state domain.MemoryState, consecutiveCorrect int, avgResponseTime float64) []domain.ExerciseWeight {
	switch state {
	case domain.StateNew:
		// Fresh words get recognition-oriented drills.
		return []domain.ExerciseWeight{
			{Type: domain.ExerciseRecognition, Weight: 0.4},
			{Type: domain.ExerciseMultipleChoiceArticle, Weight: 0.4},
			{Type: domain.ExerciseMultipleChoice, Weight: 0.2},
		}
	case domain.StateLearning, domain.StateWeak:
		if consecutiveCorrect >= 3 {
			return []domain.ExerciseWeight{
				{Type: domain.ExerciseTyping, Weight: 0.5},
				{Type: domain.ExerciseSentenceCompletion, Weight: 0.3},
				{Type: domain.ExerciseMultipleChoice, Weight: 0.2},
			}
		}
		return []domain.ExerciseWeight{
			{Type: domain.ExerciseMultipleChoice, Weight: 0.4},
			{Type: domain.ExerciseTyping, Weight: 0.4},
			{Type: domain.ExerciseArticleChoice, Weight: 0.2},
		}
	case domain.StateStrong, domain.StateMastered:
		if avgResponseTime < 3 {
			// Fast responders get full production tasks.
			return []domain.ExerciseWeight{
				{Type: domain.ExerciseTyping, Weight: 0.5},
				{Type: domain.ExerciseSentenceCompletion, Weight: 0.3},
				{Type: domain.ExerciseReverseTranslation, Weight: 0.2},
			}
		}
		return []domain.ExerciseWeight{
			{Type: domain.ExerciseTyping, Weight: 0.4},
			{Type: domain.ExerciseMultipleChoice, Weight: 0.4},
			{Type: domain.ExerciseArticleChoice, Weight: 0.2},
		}
	default:
		return []domain.ExerciseWeight{
			{Type: domain.ExerciseMultipleChoice, Weight: 0.5},
			{Type: domain.ExerciseTyping, Weight: 0.5},
		}
	}
}

func takeUpTo(ids []int64, n int) []int64 {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}
