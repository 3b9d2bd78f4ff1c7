package postgres

import (
	"database/sql"
	"fmt"

	"wortschatz/internal/domain"
)

// ReviewItemRepo implements repository.ReviewItemRepository
type ReviewItemRepo struct {
	db *sql.DB
}

// NewReviewItemRepo creates a new review item repository
func NewReviewItemRepo(db *sql.DB) *ReviewItemRepo {
	return &ReviewItemRepo{db: db}
}

const itemColumns = `id, user_id, word_id, memory_strength, memory_state, decay_rate,
	total_reviews, correct_reviews, consecutive_correct, avg_response_time,
	first_seen, last_reviewed, next_review`

// GetByID returns a single review item or nil when it doesn't exist
func (r *ReviewItemRepo) GetByID(id int64) (*domain.ReviewItem, error) {
	query := `SELECT ` + itemColumns + ` FROM review_items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetByUserAndWord returns the user's item for a word, nil if absent
func (r *ReviewItemRepo) GetByUserAndWord(userID, wordID int64) (*domain.ReviewItem, error) {
	query := `SELECT ` + itemColumns + ` FROM review_items WHERE user_id = $1 AND word_id = $2`

	item, err := scanItem(r.db.QueryRow(query, userID, wordID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetDue returns items ready for review, weakest memories first.
// Mastered items are excluded from scheduling entirely.
func (r *ReviewItemRepo) GetDue(userID int64, limit int) ([]domain.ReviewItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM review_items
		WHERE user_id = $1
			AND next_review <= NOW()
			AND memory_state != 'mastered'
		ORDER BY memory_strength ASC, next_review ASC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectItems(rows)
}

// GetPractice returns due weak and learning items, weakest first
func (r *ReviewItemRepo) GetPractice(userID int64, limit int) ([]domain.ReviewItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM review_items
		WHERE user_id = $1
			AND next_review <= NOW()
			AND memory_state IN ('weak', 'learning')
		ORDER BY memory_strength ASC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectItems(rows)
}

// Create inserts a fresh review item with scheduling defaults
func (r *ReviewItemRepo) Create(userID, wordID int64) (*domain.ReviewItem, error) {
	query := `
		INSERT INTO review_items (user_id, word_id, memory_strength, memory_state, decay_rate, next_review)
		VALUES ($1, $2, 0.0, 'new', $3, NOW())
		RETURNING ` + itemColumns

	item, err := scanItem(r.db.QueryRow(query, userID, wordID, domain.DefaultDecayRate))
	if err != nil {
		return nil, fmt.Errorf("failed to create review item: %w", err)
	}
	return item, nil
}

// SaveReview commits the updated item, the answer log and the session
// counters together. If any statement fails the whole answer is rolled
// back so the caller can retry from the unmodified stored state.
func (r *ReviewItemRepo) SaveReview(item *domain.ReviewItem, log *domain.ReviewLog, wasNew bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateItem := `
		UPDATE review_items
		SET memory_strength = $2, memory_state = $3,
			total_reviews = $4, correct_reviews = $5, consecutive_correct = $6,
			avg_response_time = $7, last_reviewed = $8, next_review = $9
		WHERE id = $1
	`
	if _, err := tx.Exec(updateItem,
		item.ID, item.MemoryStrength, string(item.MemoryState),
		item.TotalReviews, item.CorrectReviews, item.ConsecutiveCorrect,
		item.AvgResponseTime, item.LastReviewed, item.NextReview,
	); err != nil {
		return fmt.Errorf("failed to update review item: %w", err)
	}

	insertLog := `
		INSERT INTO review_logs (session_id, review_item_id, exercise_type, response_time, was_correct)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(insertLog,
		log.SessionID, log.ReviewItemID, string(log.ExerciseType),
		log.ResponseTime, log.WasCorrect,
	); err != nil {
		return fmt.Errorf("failed to insert review log: %w", err)
	}

	correctDelta := 0
	if log.WasCorrect {
		correctDelta = 1
	}
	learnedDelta, reviewedDelta := 0, 1
	if wasNew {
		learnedDelta, reviewedDelta = 1, 0
	}

	updateSession := `
		UPDATE review_sessions
		SET total_answered = total_answered + 1,
			total_correct = total_correct + $2,
			words_learned = words_learned + $3,
			words_reviewed = words_reviewed + $4
		WHERE id = $1
	`
	if _, err := tx.Exec(updateSession,
		log.SessionID, correctDelta, learnedDelta, reviewedDelta,
	); err != nil {
		return fmt.Errorf("failed to update session counters: %w", err)
	}

	return tx.Commit()
}

// CountAll returns the number of review items owned by the user
func (r *ReviewItemRepo) CountAll(userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM review_items WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// CountByState returns the number of the user's items in one state
func (r *ReviewItemRepo) CountByState(userID int64, state domain.MemoryState) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM review_items WHERE user_id = $1 AND memory_state = $2`
	err := r.db.QueryRow(query, userID, string(state)).Scan(&count)
	return count, err
}

// CountDue returns the number of items pending review
func (r *ReviewItemRepo) CountDue(userID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM review_items
		WHERE user_id = $1 AND next_review <= NOW() AND memory_state != 'mastered'
	`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// StateDistribution returns item counts per memory state
func (r *ReviewItemRepo) StateDistribution(userID int64) (map[domain.MemoryState]int, error) {
	query := `
		SELECT memory_state, COUNT(*)
		FROM review_items
		WHERE user_id = $1
		GROUP BY memory_state
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := make(map[domain.MemoryState]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		dist[domain.MemoryState(state)] = count
	}

	return dist, rows.Err()
}

// DueCountsByUser returns pending review counts for every user with at
// least one due item
func (r *ReviewItemRepo) DueCountsByUser() (map[int64]int, error) {
	query := `
		SELECT user_id, COUNT(*)
		FROM review_items
		WHERE next_review <= NOW() AND memory_state != 'mastered'
		GROUP BY user_id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, err
		}
		counts[userID] = count
	}

	return counts, rows.Err()
}

func scanItem(row rowScanner) (*domain.ReviewItem, error) {
	var item domain.ReviewItem
	var state string
	var lastReviewed sql.NullTime
	err := row.Scan(
		&item.ID, &item.UserID, &item.WordID, &item.MemoryStrength, &state,
		&item.DecayRate, &item.TotalReviews, &item.CorrectReviews,
		&item.ConsecutiveCorrect, &item.AvgResponseTime,
		&item.FirstSeen, &lastReviewed, &item.NextReview,
	)
	if err != nil {
		return nil, err
	}

	item.MemoryState = domain.MemoryState(state)
	if lastReviewed.Valid {
		item.LastReviewed = &lastReviewed.Time
	}

	return &item, nil
}

func collectItems(rows *sql.Rows) ([]domain.ReviewItem, error) {
	var items []domain.ReviewItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
