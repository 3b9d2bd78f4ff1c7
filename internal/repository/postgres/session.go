package postgres

import (
	"database/sql"
	"time"

	"wortschatz/internal/domain"
)

// SessionRepo implements repository.SessionRepository
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create starts a new review session record
func (r *SessionRepo) Create(userID int64, sessionType domain.SessionType) (*domain.ReviewSession, error) {
	query := `
		INSERT INTO review_sessions (user_id, session_type)
		VALUES ($1, $2)
		RETURNING id, started_at
	`

	s := domain.ReviewSession{UserID: userID, Type: sessionType}
	err := r.db.QueryRow(query, userID, string(sessionType)).Scan(&s.ID, &s.StartedAt)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Complete marks a session finished
func (r *SessionRepo) Complete(sessionID int64) error {
	query := `
		UPDATE review_sessions
		SET completed_at = NOW()
		WHERE id = $1 AND completed_at IS NULL
	`
	_, err := r.db.Exec(query, sessionID)
	return err
}

// RecentSince returns the user's sessions started after the given time,
// newest first
func (r *SessionRepo) RecentSince(userID int64, since time.Time) ([]domain.ReviewSession, error) {
	query := `
		SELECT id, user_id, session_type, started_at, completed_at,
			words_learned, words_reviewed, total_correct, total_answered
		FROM review_sessions
		WHERE user_id = $1 AND started_at >= $2
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ReviewSession
	for rows.Next() {
		var s domain.ReviewSession
		var sessionType string
		var completedAt sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.UserID, &sessionType, &s.StartedAt, &completedAt,
			&s.WordsLearned, &s.WordsReviewed, &s.TotalCorrect, &s.TotalAnswered,
		); err != nil {
			return nil, err
		}
		s.Type = domain.SessionType(sessionType)
		if completedAt.Valid {
			s.CompletedAt = &completedAt.Time
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
