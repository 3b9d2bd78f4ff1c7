package service

import (
	"fmt"
	"sort"
	"time"

	"wortschatz/internal/domain"
	"wortschatz/internal/repository"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const weeklyWindowDays = 7

// Dashboard is the aggregate progress snapshot shown to the user.
type Dashboard struct {
	TotalItems   int
	DueCount     int
	Distribution map[domain.MemoryState]int
	StreakDays   int
	BestStreak   int
	DailyGoal    int
}

// WeeklySummary aggregates the last seven days of review activity.
type WeeklySummary struct {
	Days          []domain.Day
	WordsLearned  int
	WordsReviewed int
	Accuracy      float64
}

// StatsService computes progress dashboards and maintains the daily
// activity streak.
type StatsService struct {
	items    repository.ReviewItemRepository
	sessions repository.SessionRepository
	users    repository.UserRepository
	logger   *zap.Logger

	now func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(
	items repository.ReviewItemRepository,
	sessions repository.SessionRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		items:    items,
		sessions: sessions,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// Dashboard builds the progress snapshot for one user.
func (s *StatsService) Dashboard(userID int64) (*Dashboard, error) {
	total, err := s.items.CountAll(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	due, err := s.items.CountDue(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count due items: %w", err)
	}

	dist, err := s.items.StateDistribution(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load state distribution: %w", err)
	}

	dash := &Dashboard{
		TotalItems:   total,
		DueCount:     due,
		Distribution: dist,
	}

	user, err := s.users.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user != nil {
		dash.StreakDays = user.StreakDays
		dash.BestStreak = user.BestStreak
		dash.DailyGoal = user.DailyGoal
	}

	return dash, nil
}

// Weekly aggregates the user's sessions from the last seven days into
// per-day rows plus window totals.
func (s *StatsService) Weekly(userID int64) (*WeeklySummary, error) {
	since := s.now().AddDate(0, 0, -weeklyWindowDays)
	sessions, err := s.sessions.RecentSince(userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sessions: %w", err)
	}

	summary := &WeeklySummary{
		WordsLearned:  lo.SumBy(sessions, func(sess domain.ReviewSession) int { return sess.WordsLearned }),
		WordsReviewed: lo.SumBy(sessions, func(sess domain.ReviewSession) int { return sess.WordsReviewed }),
	}

	correct := lo.SumBy(sessions, func(sess domain.ReviewSession) int { return sess.TotalCorrect })
	answered := lo.SumBy(sessions, func(sess domain.ReviewSession) int { return sess.TotalAnswered })
	if answered > 0 {
		summary.Accuracy = float64(correct) / float64(answered) * 100
	}

	byDay := lo.GroupBy(sessions, func(sess domain.ReviewSession) string {
		return sess.StartedAt.Format("2006-01-02")
	})

	for dateStr, daySessions := range byDay {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		dayCorrect := lo.SumBy(daySessions, func(sess domain.ReviewSession) int { return sess.TotalCorrect })
		dayAnswered := lo.SumBy(daySessions, func(sess domain.ReviewSession) int { return sess.TotalAnswered })

		day := domain.Day{
			Date:        date,
			Sessions:    len(daySessions),
			ReviewCount: lo.SumBy(daySessions, func(sess domain.ReviewSession) int { return sess.WordsReviewed }),
		}
		if dayAnswered > 0 {
			day.Accuracy = float64(dayCorrect) / float64(dayAnswered) * 100
		}
		summary.Days = append(summary.Days, day)
	}

	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date.After(summary.Days[j].Date)
	})

	return summary, nil
}

// UpdateStreak bumps the user's daily streak for activity happening now.
// Consecutive calendar days extend the streak, a gap resets it to one
// and a second session on the same day leaves it unchanged.
func (s *StatsService) UpdateStreak(userID int64) error {
	user, err := s.users.Get(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %d not found", userID)
	}

	now := s.now()
	streak := user.StreakDays

	switch {
	case user.LastActive == nil:
		streak = 1
	default:
		switch daysBetween(*user.LastActive, now) {
		case 0:
			// Already counted today.
		case 1:
			streak++
		default:
			streak = 1
		}
	}

	best := user.BestStreak
	if streak > best {
		best = streak
	}

	if streak == user.StreakDays && user.LastActive != nil && daysBetween(*user.LastActive, now) == 0 {
		return nil
	}

	if err := s.users.UpdateStreak(userID, streak, best, now); err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}

	s.logger.Info("Streak updated",
		zap.Int64("user_id", userID),
		zap.Int("streak_days", streak),
		zap.Int("best_streak", best),
	)
	return nil
}

// daysBetween counts whole calendar days between two instants in UTC.
func daysBetween(earlier, later time.Time) int {
	e := earlier.UTC().Truncate(24 * time.Hour)
	l := later.UTC().Truncate(24 * time.Hour)
	return int(l.Sub(e).Hours() / 24)
}
