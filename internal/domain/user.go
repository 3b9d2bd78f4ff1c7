package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	Level      string // CEFR level, defaults to A1
	DailyGoal  int
	StreakDays int
	BestStreak int
	LastActive *time.Time
	CreatedAt  time.Time
}

// CurrentLevel returns the user's CEFR level, falling back to A1.
func (u *User) CurrentLevel() string {
	if u.Level == "" {
		return "A1"
	}
	return u.Level
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle            UserState = "idle"
	StateWaitingPassword UserState = "waiting_password"
	StateInSession       UserState = "in_session"
	StateWaitingTyping   UserState = "waiting_typing"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State     UserState
	Session   *SessionQueue
	MessageID int // For editing messages
}
