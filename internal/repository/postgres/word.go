package postgres

import (
	"database/sql"

	"wortschatz/internal/domain"
)

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

const wordColumns = `id, lemma, article, plural, part_of_speech, level, lesson,
	translation, example_sentence, example_translation, ipa, frequency_rank`

// GetByID returns a single word or nil when it doesn't exist
func (r *WordRepo) GetByID(id int64) (*domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	w, err := scanWord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetNewCandidates returns words at the given level the user has no
// review item for, ordered by curriculum priority (lesson, then
// frequency rank)
func (r *WordRepo) GetNewCandidates(userID int64, level string, limit int) ([]domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words w
		WHERE w.level = $2
			AND NOT EXISTS (
				SELECT 1 FROM review_items ri
				WHERE ri.user_id = $1 AND ri.word_id = w.id
			)
		ORDER BY w.lesson ASC, w.frequency_rank ASC
		LIMIT $3
	`

	rows, err := r.db.Query(query, userID, level, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWords(rows)
}

// GetDistractors returns random words sharing the given word's part of
// speech and level, for use as wrong multiple-choice options
func (r *WordRepo) GetDistractors(word *domain.Word, limit int) ([]domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE id != $1
			AND part_of_speech = $2
			AND level = $3
		ORDER BY RANDOM()
		LIMIT $4
	`

	rows, err := r.db.Query(query, word.ID, word.PartOfSpeech, word.Level, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	distractors, err := collectWords(rows)
	if err != nil {
		return nil, err
	}

	// Not enough same-category words: pad with random ones.
	if len(distractors) < limit {
		fallback := `
			SELECT ` + wordColumns + `
			FROM words
			WHERE id != $1
			ORDER BY RANDOM()
			LIMIT $2
		`
		extraRows, err := r.db.Query(fallback, word.ID, limit-len(distractors))
		if err != nil {
			return nil, err
		}
		defer extraRows.Close()

		extra, err := collectWords(extraRows)
		if err != nil {
			return nil, err
		}
		distractors = append(distractors, extra...)
	}

	return distractors, nil
}

// Upsert inserts a word or updates an existing one matched by lemma.
// Reports whether a new row was created.
func (r *WordRepo) Upsert(word *domain.Word) (bool, error) {
	var existingID int64
	err := r.db.QueryRow(`SELECT id FROM words WHERE lemma = $1`, word.Lemma).Scan(&existingID)

	if err == sql.ErrNoRows {
		insert := `
			INSERT INTO words (lemma, article, plural, part_of_speech, level, lesson,
				translation, example_sentence, example_translation, ipa, frequency_rank)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`
		err = r.db.QueryRow(insert,
			word.Lemma, word.Article, word.Plural, word.PartOfSpeech, word.Level,
			word.Lesson, word.Translation, word.ExampleSentence, word.ExampleTranslation,
			word.IPA, word.FrequencyRank,
		).Scan(&word.ID)
		if err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	update := `
		UPDATE words
		SET article = $2, plural = $3, part_of_speech = $4, level = $5, lesson = $6,
			translation = $7, example_sentence = $8, example_translation = $9,
			ipa = $10, frequency_rank = $11
		WHERE id = $1
	`
	_, err = r.db.Exec(update,
		existingID, word.Article, word.Plural, word.PartOfSpeech, word.Level,
		word.Lesson, word.Translation, word.ExampleSentence, word.ExampleTranslation,
		word.IPA, word.FrequencyRank,
	)
	if err != nil {
		return false, err
	}
	word.ID = existingID
	return false, nil
}

// CountAll returns the total vocabulary size
func (r *WordRepo) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&count)
	return count, err
}

// CountByLevel returns the vocabulary size for one CEFR level
func (r *WordRepo) CountByLevel(level string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM words WHERE level = $1`, level).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var w domain.Word
	err := row.Scan(
		&w.ID, &w.Lemma, &w.Article, &w.Plural, &w.PartOfSpeech, &w.Level,
		&w.Lesson, &w.Translation, &w.ExampleSentence, &w.ExampleTranslation,
		&w.IPA, &w.FrequencyRank,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func collectWords(rows *sql.Rows) ([]domain.Word, error) {
	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, *w)
	}
	return words, rows.Err()
}
