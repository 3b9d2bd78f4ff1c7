package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"wortschatz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var itemRowColumns = []string{
	"id", "user_id", "word_id", "memory_strength", "memory_state", "decay_rate",
	"total_reviews", "correct_reviews", "consecutive_correct", "avg_response_time",
	"first_seen", "last_reviewed", "next_review",
}

func itemRow(id, userID, wordID int64, strength float64, state string) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, userID, wordID, strength, state, 0.3,
		0, 0, 0, 0.0,
		now, nil, now,
	}
}

func TestReviewItemRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)

	t.Run("existing item", func(t *testing.T) {
		rows := sqlmock.NewRows(itemRowColumns).
			AddRow(itemRow(1, 123, 10, 0.55, "weak")...)
		mock.ExpectQuery("SELECT (.+) FROM review_items WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(rows)

		item, err := repo.GetByID(1)

		assert.NoError(t, err)
		assert.Equal(t, int64(123), item.UserID)
		assert.Equal(t, domain.StateWeak, item.MemoryState)
		assert.InDelta(t, 0.55, item.MemoryStrength, 1e-9)
		assert.Nil(t, item.LastReviewed)
	})

	t.Run("missing item returns nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM review_items WHERE id = \\$1").
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)

		item, err := repo.GetByID(2)

		assert.NoError(t, err)
		assert.Nil(t, item)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewItemRepo_GetDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)

	rows := sqlmock.NewRows(itemRowColumns).
		AddRow(itemRow(1, 123, 10, 0.2, "learning")...).
		AddRow(itemRow(2, 123, 11, 0.6, "weak")...)

	mock.ExpectQuery("SELECT (.+) FROM review_items").
		WithArgs(int64(123), 10).
		WillReturnRows(rows)

	items, err := repo.GetDue(123, 10)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, domain.StateLearning, items[0].MemoryState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewItemRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)

	rows := sqlmock.NewRows(itemRowColumns).
		AddRow(itemRow(5, 123, 10, 0.0, "new")...)

	mock.ExpectQuery("INSERT INTO review_items").
		WithArgs(int64(123), int64(10), domain.DefaultDecayRate).
		WillReturnRows(rows)

	item, err := repo.Create(123, 10)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
	assert.Equal(t, domain.StateNew, item.MemoryState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func saveReviewFixture() (*domain.ReviewItem, *domain.ReviewLog) {
	now := time.Now()
	item := &domain.ReviewItem{
		ID:                 1,
		UserID:             123,
		WordID:             10,
		MemoryStrength:     0.55,
		MemoryState:        domain.StateWeak,
		TotalReviews:       3,
		CorrectReviews:     2,
		ConsecutiveCorrect: 1,
		AvgResponseTime:    4.5,
		LastReviewed:       &now,
		NextReview:         now.Add(12 * time.Hour),
	}
	log := &domain.ReviewLog{
		SessionID:    7,
		ReviewItemID: 1,
		ExerciseType: domain.ExerciseTyping,
		ResponseTime: 3.2,
		WasCorrect:   true,
	}
	return item, log
}

func TestReviewItemRepo_SaveReview_CommitsAllWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)
	item, log := saveReviewFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE review_items").
		WithArgs(
			item.ID, item.MemoryStrength, "weak",
			item.TotalReviews, item.CorrectReviews, item.ConsecutiveCorrect,
			item.AvgResponseTime, item.LastReviewed, item.NextReview,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO review_logs").
		WithArgs(log.SessionID, log.ReviewItemID, "typing", log.ResponseTime, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE review_sessions").
		WithArgs(log.SessionID, 1, 0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.SaveReview(item, log, false)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewItemRepo_SaveReview_NewWordCountsAsLearned(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)
	item, log := saveReviewFixture()
	log.WasCorrect = false

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE review_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO review_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// First exposure: learned +1, reviewed +0, and an incorrect answer.
	mock.ExpectExec("UPDATE review_sessions").
		WithArgs(log.SessionID, 0, 1, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.SaveReview(item, log, true)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewItemRepo_SaveReview_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)
	item, log := saveReviewFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE review_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO review_logs").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err = repo.SaveReview(item, log, false)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewItemRepo_CountByState(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM review_items").
		WithArgs(int64(123), "mastered").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	count, err := repo.CountByState(123, domain.StateMastered)

	assert.NoError(t, err)
	assert.Equal(t, 6, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewItemRepo_StateDistribution(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)

	rows := sqlmock.NewRows([]string{"memory_state", "count"}).
		AddRow("new", 5).
		AddRow("learning", 12).
		AddRow("mastered", 3)

	mock.ExpectQuery("SELECT memory_state, COUNT\\(\\*\\)").
		WithArgs(int64(123)).
		WillReturnRows(rows)

	dist, err := repo.StateDistribution(123)

	assert.NoError(t, err)
	assert.Equal(t, map[domain.MemoryState]int{
		domain.StateNew:      5,
		domain.StateLearning: 12,
		domain.StateMastered: 3,
	}, dist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewItemRepo_DueCountsByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewReviewItemRepo(db)

	rows := sqlmock.NewRows([]string{"user_id", "count"}).
		AddRow(int64(1), 4).
		AddRow(int64(2), 9)

	mock.ExpectQuery("SELECT user_id, COUNT\\(\\*\\)").
		WillReturnRows(rows)

	counts, err := repo.DueCountsByUser()

	assert.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 4, 2: 9}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
