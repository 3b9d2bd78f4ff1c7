package domain

import "time"

// SessionType classifies how a review session was started.
type SessionType string

const (
	SessionMixed    SessionType = "mixed"
	SessionPractice SessionType = "practice"
)

// ReviewSession is the persisted record of one practice sitting.
type ReviewSession struct {
	ID            int64
	UserID        int64
	Type          SessionType
	StartedAt     time.Time
	CompletedAt   *time.Time
	WordsLearned  int
	WordsReviewed int
	TotalCorrect  int
	TotalAnswered int
}

// Accuracy returns the share of correct answers in percent.
func (s *ReviewSession) Accuracy() float64 {
	if s.TotalAnswered == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalAnswered) * 100
}

// ReviewLog records a single answered exercise within a session.
type ReviewLog struct {
	ID           int64
	SessionID    int64
	ReviewItemID int64
	ExerciseType ExerciseType
	ResponseTime float64
	WasCorrect   bool
	AnsweredAt   time.Time
}

// SessionQueue is the ephemeral ordered batch of review item IDs for
// one active session, consumed one position at a time. It belongs to
// exactly one session and is discarded once the cursor reaches the end.
type SessionQueue struct {
	SessionID int64
	ItemIDs   []int64
	Cursor    int

	// QuestionStart is when the current exercise was shown; response
	// time is measured against it.
	QuestionStart time.Time

	// Current holds the exercise the user is answering right now.
	Current *Exercise
}

// Next advances the cursor and returns the next item ID.
func (q *SessionQueue) Next() (int64, bool) {
	if q.Cursor >= len(q.ItemIDs) {
		return 0, false
	}
	id := q.ItemIDs[q.Cursor]
	q.Cursor++
	return id, true
}

// Finished reports whether every position has been consumed.
func (q *SessionQueue) Finished() bool {
	return q.Cursor >= len(q.ItemIDs)
}

// Position returns the 1-based position of the current question.
func (q *SessionQueue) Position() int {
	return q.Cursor
}

// Len returns the total number of items in the queue.
func (q *SessionQueue) Len() int {
	return len(q.ItemIDs)
}
