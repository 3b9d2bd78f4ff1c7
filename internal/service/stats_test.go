package service

import (
	"testing"
	"time"

	"wortschatz/internal/domain"
	"wortschatz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestStatsService() (*StatsService, *learningMocks) {
	m := &learningMocks{
		items:    new(testutil.MockReviewItemRepository),
		sessions: new(testutil.MockSessionRepository),
		users:    new(testutil.MockUserRepository),
	}
	svc := NewStatsService(m.items, m.sessions, m.users, testutil.NewTestLogger())
	return svc, m
}

func TestStatsService_Dashboard(t *testing.T) {
	svc, m := newTestStatsService()

	userID := int64(1)
	m.items.On("CountAll", userID).Return(42, nil)
	m.items.On("CountDue", userID).Return(7, nil)
	m.items.On("StateDistribution", userID).Return(map[domain.MemoryState]int{
		domain.StateNew:      5,
		domain.StateLearning: 12,
		domain.StateWeak:     10,
		domain.StateStrong:   9,
		domain.StateMastered: 6,
	}, nil)

	user := testutil.NewTestUser(userID, true)
	user.StreakDays = 4
	user.BestStreak = 9
	m.users.On("Get", userID).Return(user, nil)

	dash, err := svc.Dashboard(userID)

	assert.NoError(t, err)
	assert.Equal(t, 42, dash.TotalItems)
	assert.Equal(t, 7, dash.DueCount)
	assert.Equal(t, 12, dash.Distribution[domain.StateLearning])
	assert.Equal(t, 4, dash.StreakDays)
	assert.Equal(t, 9, dash.BestStreak)
	assert.Equal(t, 10, dash.DailyGoal)
}

func TestStatsService_Weekly(t *testing.T) {
	svc, m := newTestStatsService()

	fixed := time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	userID := int64(1)
	sessions := []domain.ReviewSession{
		{
			ID: 1, UserID: userID, Type: domain.SessionMixed,
			StartedAt:     fixed.Add(-2 * time.Hour),
			WordsLearned:  3,
			WordsReviewed: 10,
			TotalCorrect:  8,
			TotalAnswered: 10,
		},
		{
			ID: 2, UserID: userID, Type: domain.SessionMixed,
			StartedAt:     fixed.Add(-26 * time.Hour),
			WordsLearned:  2,
			WordsReviewed: 8,
			TotalCorrect:  4,
			TotalAnswered: 8,
		},
		{
			ID: 3, UserID: userID, Type: domain.SessionPractice,
			StartedAt:     fixed.Add(-27 * time.Hour),
			WordsLearned:  0,
			WordsReviewed: 6,
			TotalCorrect:  6,
			TotalAnswered: 6,
		},
	}
	m.sessions.On("RecentSince", userID, mock.Anything).Return(sessions, nil)

	summary, err := svc.Weekly(userID)

	assert.NoError(t, err)
	assert.Equal(t, 5, summary.WordsLearned)
	assert.Equal(t, 24, summary.WordsReviewed)
	assert.InDelta(t, 75.0, summary.Accuracy, 0.001) // 18 of 24

	assert.Len(t, summary.Days, 2)
	// Most recent day first.
	assert.Equal(t, "2024-06-08", summary.Days[0].Date.Format("2006-01-02"))
	assert.Equal(t, 1, summary.Days[0].Sessions)
	assert.Equal(t, 10, summary.Days[0].ReviewCount)
	assert.InDelta(t, 80.0, summary.Days[0].Accuracy, 0.001)

	assert.Equal(t, "2024-06-07", summary.Days[1].Date.Format("2006-01-02"))
	assert.Equal(t, 2, summary.Days[1].Sessions)
	assert.Equal(t, 14, summary.Days[1].ReviewCount)
	assert.InDelta(t, 10.0/14.0*100, summary.Days[1].Accuracy, 0.001)
}

func TestStatsService_Weekly_NoSessions(t *testing.T) {
	svc, m := newTestStatsService()

	m.sessions.On("RecentSince", int64(1), mock.Anything).Return([]domain.ReviewSession{}, nil)

	summary, err := svc.Weekly(1)

	assert.NoError(t, err)
	assert.Empty(t, summary.Days)
	assert.Zero(t, summary.Accuracy)
}

func TestStatsService_UpdateStreak(t *testing.T) {
	fixed := time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		lastActive     *time.Time
		streakDays     int
		bestStreak     int
		expectedStreak int
		expectedBest   int
		expectUpdate   bool
	}{
		{
			name:           "first ever session",
			lastActive:     nil,
			streakDays:     0,
			bestStreak:     0,
			expectedStreak: 1,
			expectedBest:   1,
			expectUpdate:   true,
		},
		{
			name:           "consecutive day extends streak",
			lastActive:     timePtr(fixed.AddDate(0, 0, -1)),
			streakDays:     3,
			bestStreak:     5,
			expectedStreak: 4,
			expectedBest:   5,
			expectUpdate:   true,
		},
		{
			name:           "new best streak",
			lastActive:     timePtr(fixed.AddDate(0, 0, -1)),
			streakDays:     5,
			bestStreak:     5,
			expectedStreak: 6,
			expectedBest:   6,
			expectUpdate:   true,
		},
		{
			name:           "gap resets streak",
			lastActive:     timePtr(fixed.AddDate(0, 0, -3)),
			streakDays:     7,
			bestStreak:     7,
			expectedStreak: 1,
			expectedBest:   7,
			expectUpdate:   true,
		},
		{
			name:         "same day is a no-op",
			lastActive:   timePtr(fixed.Add(-2 * time.Hour)),
			streakDays:   2,
			bestStreak:   4,
			expectUpdate: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestStatsService()
			svc.now = func() time.Time { return fixed }

			user := testutil.NewTestUser(1, true)
			user.StreakDays = tt.streakDays
			user.BestStreak = tt.bestStreak
			user.LastActive = tt.lastActive
			m.users.On("Get", int64(1)).Return(user, nil)

			if tt.expectUpdate {
				m.users.On("UpdateStreak", int64(1), tt.expectedStreak, tt.expectedBest, fixed).Return(nil)
			}

			err := svc.UpdateStreak(1)

			assert.NoError(t, err)
			if !tt.expectUpdate {
				m.users.AssertNotCalled(t, "UpdateStreak", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			m.users.AssertExpectations(t)
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
