package postgres

import (
	"database/sql"
	"time"

	"wortschatz/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// IsAuthorized checks if user is authorized
func (r *UserRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM users WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if err == sql.ErrNoRows {
		// User doesn't exist yet
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// AuthorizeUser marks user as authorized
func (r *UserRepo) AuthorizeUser(userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// Get returns the user's profile or nil when it doesn't exist
func (r *UserRepo) Get(userID int64) (*domain.User, error) {
	var u domain.User
	var lastActive sql.NullTime
	query := `
		SELECT user_id, authorized, level, daily_goal, streak_days, best_streak,
			last_active, created_at
		FROM users
		WHERE user_id = $1
	`
	err := r.db.QueryRow(query, userID).Scan(
		&u.UserID, &u.Authorized, &u.Level, &u.DailyGoal,
		&u.StreakDays, &u.BestStreak, &lastActive, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastActive.Valid {
		u.LastActive = &lastActive.Time
	}

	return &u, nil
}

// UpdateStreak stores the recomputed streak counters
func (r *UserRepo) UpdateStreak(userID int64, streakDays, bestStreak int, lastActive time.Time) error {
	query := `
		UPDATE users
		SET streak_days = $2, best_streak = $3, last_active = $4
		WHERE user_id = $1
	`
	_, err := r.db.Exec(query, userID, streakDays, bestStreak, lastActive)
	return err
}
