package repository

import (
	"time"

	"wortschatz/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64) error
	EnsureUserExists(userID int64) error
	Get(userID int64) (*domain.User, error)
	UpdateStreak(userID int64, streakDays, bestStreak int, lastActive time.Time) error
}

// WordRepository defines vocabulary data operations
type WordRepository interface {
	GetByID(id int64) (*domain.Word, error)
	// GetNewCandidates returns words at the given level the user has no
	// review item for yet, ordered by lesson then frequency rank.
	GetNewCandidates(userID int64, level string, limit int) ([]domain.Word, error)
	// GetDistractors returns words suitable as wrong answers for the
	// given word (same part of speech and level preferred).
	GetDistractors(word *domain.Word, limit int) ([]domain.Word, error)
	Upsert(word *domain.Word) (created bool, err error)
	CountAll() (int, error)
	CountByLevel(level string) (int, error)
}

// ReviewItemRepository defines scheduling-state data operations
type ReviewItemRepository interface {
	GetByID(id int64) (*domain.ReviewItem, error)
	GetByUserAndWord(userID, wordID int64) (*domain.ReviewItem, error)
	// GetDue returns items ready for review ordered by memory strength
	// ascending, then next review time ascending. Mastered items are
	// excluded.
	GetDue(userID int64, limit int) ([]domain.ReviewItem, error)
	// GetPractice returns due weak and learning items ordered weakest
	// first, for focused practice sessions.
	GetPractice(userID int64, limit int) ([]domain.ReviewItem, error)
	// Create inserts a fresh item with scheduling defaults: state new,
	// strength 0, next review now.
	Create(userID, wordID int64) (*domain.ReviewItem, error)
	// SaveReview persists the updated item, the review log entry and
	// the session counter increments in one transaction. wasNew marks
	// whether the item was in state new before the answer.
	SaveReview(item *domain.ReviewItem, log *domain.ReviewLog, wasNew bool) error
	CountAll(userID int64) (int, error)
	CountByState(userID int64, state domain.MemoryState) (int, error)
	CountDue(userID int64) (int, error)
	StateDistribution(userID int64) (map[domain.MemoryState]int, error)
	// DueCountsByUser returns the pending review count per user, for
	// the reminder job.
	DueCountsByUser() (map[int64]int, error)
}

// SessionRepository defines review session data operations
type SessionRepository interface {
	Create(userID int64, sessionType domain.SessionType) (*domain.ReviewSession, error)
	Complete(sessionID int64) error
	RecentSince(userID int64, since time.Time) ([]domain.ReviewSession, error)
}
