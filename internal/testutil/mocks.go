package testutil

import (
	"time"

	"wortschatz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) Get(userID int64) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateStreak(userID int64, streakDays, bestStreak int, lastActive time.Time) error {
	args := m.Called(userID, streakDays, bestStreak, lastActive)
	return args.Error(0)
}

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) GetByID(id int64) (*domain.Word, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) GetNewCandidates(userID int64, level string, limit int) ([]domain.Word, error) {
	args := m.Called(userID, level, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) GetDistractors(word *domain.Word, limit int) ([]domain.Word, error) {
	args := m.Called(word, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) Upsert(word *domain.Word) (bool, error) {
	args := m.Called(word)
	return args.Bool(0), args.Error(1)
}

func (m *MockWordRepository) CountAll() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) CountByLevel(level string) (int, error) {
	args := m.Called(level)
	return args.Int(0), args.Error(1)
}

// MockReviewItemRepository is a mock for ReviewItemRepository
type MockReviewItemRepository struct {
	mock.Mock
}

func (m *MockReviewItemRepository) GetByID(id int64) (*domain.ReviewItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewItem), args.Error(1)
}

func (m *MockReviewItemRepository) GetByUserAndWord(userID, wordID int64) (*domain.ReviewItem, error) {
	args := m.Called(userID, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewItem), args.Error(1)
}

func (m *MockReviewItemRepository) GetDue(userID int64, limit int) ([]domain.ReviewItem, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewItem), args.Error(1)
}

func (m *MockReviewItemRepository) GetPractice(userID int64, limit int) ([]domain.ReviewItem, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewItem), args.Error(1)
}

func (m *MockReviewItemRepository) Create(userID, wordID int64) (*domain.ReviewItem, error) {
	args := m.Called(userID, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewItem), args.Error(1)
}

func (m *MockReviewItemRepository) SaveReview(item *domain.ReviewItem, log *domain.ReviewLog, wasNew bool) error {
	args := m.Called(item, log, wasNew)
	return args.Error(0)
}

func (m *MockReviewItemRepository) CountAll(userID int64) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewItemRepository) CountByState(userID int64, state domain.MemoryState) (int, error) {
	args := m.Called(userID, state)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewItemRepository) CountDue(userID int64) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewItemRepository) StateDistribution(userID int64) (map[domain.MemoryState]int, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.MemoryState]int), args.Error(1)
}

func (m *MockReviewItemRepository) DueCountsByUser() (map[int64]int, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

// MockSessionRepository is a mock for SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(userID int64, sessionType domain.SessionType) (*domain.ReviewSession, error) {
	args := m.Called(userID, sessionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSession), args.Error(1)
}

func (m *MockSessionRepository) Complete(sessionID int64) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) RecentSince(userID int64, since time.Time) ([]domain.ReviewSession, error) {
	args := m.Called(userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewSession), args.Error(1)
}
