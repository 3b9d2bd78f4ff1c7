package postgres

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"wortschatz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var wordRowColumns = []string{
	"id", "lemma", "article", "plural", "part_of_speech", "level", "lesson",
	"translation", "example_sentence", "example_translation", "ipa", "frequency_rank",
}

func wordRow(id int64, lemma, translation string) []driver.Value {
	return []driver.Value{id, lemma, "das", "", "noun", "A1", "1", translation, "", "", "", 10}
}

func TestWordRepo_GetByID(t *testing.T) {
	tests := []struct {
		name         string
		mockRows     *sqlmock.Rows
		mockError    error
		expectedNil  bool
		expectedErr  bool
		expectedWord string
	}{
		{
			name:         "existing word",
			mockRows:     sqlmock.NewRows(wordRowColumns).AddRow(wordRow(1, "Haus", "house")...),
			expectedWord: "Haus",
		},
		{
			name:        "missing word returns nil",
			mockError:   sql.ErrNoRows,
			expectedNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)

			query := "SELECT (.+) FROM words WHERE id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(tt.mockRows)
			}

			w, err := repo.GetByID(1)

			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.expectedNil {
				assert.Nil(t, w)
			} else {
				assert.Equal(t, tt.expectedWord, w.Lemma)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_GetNewCandidates(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	rows := sqlmock.NewRows(wordRowColumns).
		AddRow(wordRow(1, "Haus", "house")...).
		AddRow(wordRow(2, "Baum", "tree")...)

	mock.ExpectQuery("SELECT (.+) FROM words w").
		WithArgs(int64(123), "A1", 5).
		WillReturnRows(rows)

	words, err := repo.GetNewCandidates(123, "A1", 5)

	assert.NoError(t, err)
	assert.Len(t, words, 2)
	assert.Equal(t, "Haus", words[0].Lemma)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_GetDistractors_PadsWithRandomWords(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	word := &domain.Word{ID: 1, Lemma: "Haus", PartOfSpeech: "noun", Level: "A1"}

	sameCategory := sqlmock.NewRows(wordRowColumns).
		AddRow(wordRow(2, "Baum", "tree")...)
	mock.ExpectQuery("SELECT (.+) FROM words").
		WithArgs(int64(1), "noun", "A1", 3).
		WillReturnRows(sameCategory)

	// Only one same-category word found, two more come from the fallback.
	fallback := sqlmock.NewRows(wordRowColumns).
		AddRow(wordRow(3, "laufen", "to run")...).
		AddRow(wordRow(4, "schnell", "fast")...)
	mock.ExpectQuery("SELECT (.+) FROM words").
		WithArgs(int64(1), 2).
		WillReturnRows(fallback)

	distractors, err := repo.GetDistractors(word, 3)

	assert.NoError(t, err)
	assert.Len(t, distractors, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_Upsert_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	word := &domain.Word{Lemma: "Haus", Translation: "house", Level: "A1"}

	mock.ExpectQuery("SELECT id FROM words WHERE lemma = \\$1").
		WithArgs("Haus").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO words").
		WithArgs("Haus", "", "", "", "A1", "", "house", "", "", "", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	created, err := repo.Upsert(word)

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(7), word.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_Upsert_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	word := &domain.Word{Lemma: "Haus", Translation: "house", Level: "A1"}

	mock.ExpectQuery("SELECT id FROM words WHERE lemma = \\$1").
		WithArgs("Haus").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("UPDATE words").
		WithArgs(int64(7), "", "", "", "A1", "", "house", "", "", "", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Upsert(word)

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(7), word.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_CountAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM words").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountAll()

	assert.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_CountByLevel(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM words WHERE level = \\$1").
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.CountByLevel("A1")

	assert.NoError(t, err)
	assert.Equal(t, 17, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
