package testutil

import (
	"time"

	"wortschatz/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		Level:      "A1",
		DailyGoal:  10,
		CreatedAt:  time.Now(),
	}
}

// NewTestWord creates a test word
func NewTestWord(id int64, lemma, translation string) *domain.Word {
	return &domain.Word{
		ID:            id,
		Lemma:         lemma,
		Article:       "das",
		PartOfSpeech:  "noun",
		Level:         "A1",
		Lesson:        "1",
		Translation:   translation,
		FrequencyRank: 100,
	}
}

// NewTestItem creates a test review item in the given state. Strength
// is set to the state's lower threshold so state and strength agree.
func NewTestItem(id, userID, wordID int64, state domain.MemoryState) *domain.ReviewItem {
	strength := map[domain.MemoryState]float64{
		domain.StateNew:      0.0,
		domain.StateLearning: domain.ThresholdLearning,
		domain.StateWeak:     domain.ThresholdWeak,
		domain.StateStrong:   domain.ThresholdStrong,
		domain.StateMastered: domain.ThresholdMastered,
	}[state]

	return &domain.ReviewItem{
		ID:             id,
		UserID:         userID,
		WordID:         wordID,
		MemoryStrength: strength,
		MemoryState:    state,
		DecayRate:      domain.DefaultDecayRate,
		FirstSeen:      time.Now(),
		NextReview:     time.Now(),
	}
}

// NewTestSession creates a test review session
func NewTestSession(id, userID int64, sessionType domain.SessionType) *domain.ReviewSession {
	return &domain.ReviewSession{
		ID:        id,
		UserID:    userID,
		Type:      sessionType,
		StartedAt: time.Now(),
	}
}
