package scheduler

import (
	"fmt"
	"time"

	"wortschatz/internal/repository"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Notifier delivers a due-review reminder to one user.
type Notifier interface {
	NotifyDue(userID int64, dueCount int) error
}

// Scheduler runs the hourly reminder job. Users with pending reviews
// get at most one reminder per day, inside the configured local-time
// window.
type Scheduler struct {
	items     repository.ReviewItemRepository
	notifier  Notifier
	logger    *zap.Logger
	cron      *gocron.Scheduler
	startHour int
	endHour   int

	now func() time.Time
	// lastSent tracks the date of the last reminder per user.
	lastSent map[int64]string
}

// NewScheduler creates the reminder scheduler. startHour and endHour
// bound the window in which reminders may be sent.
func NewScheduler(items repository.ReviewItemRepository, notifier Notifier, startHour, endHour int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		items:     items,
		notifier:  notifier,
		logger:    logger,
		cron:      gocron.NewScheduler(time.UTC),
		startHour: startHour,
		endHour:   endHour,
		now:       time.Now,
		lastSent:  make(map[int64]string),
	}
}

// Start registers the hourly job and launches it in the background.
func (s *Scheduler) Start() error {
	_, err := s.cron.Every(1).Hour().Do(s.RunOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.cron.StartAsync()

	s.logger.Info("Reminder scheduler started",
		zap.Int("start_hour", s.startHour),
		zap.Int("end_hour", s.endHour),
	)
	return nil
}

// Stop halts the job loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce executes one reminder sweep. Exported so the job body is
// testable without the cron loop.
func (s *Scheduler) RunOnce() {
	now := s.now()
	if !s.inWindow(now) {
		return
	}

	counts, err := s.items.DueCountsByUser()
	if err != nil {
		s.logger.Error("Failed to load due counts", zap.Error(err))
		return
	}

	today := now.Format("2006-01-02")
	sent := 0
	for userID, due := range counts {
		if due == 0 || s.lastSent[userID] == today {
			continue
		}

		if err := s.notifier.NotifyDue(userID, due); err != nil {
			s.logger.Warn("Failed to send reminder",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			continue
		}

		s.lastSent[userID] = today
		sent++
	}

	if sent > 0 {
		s.logger.Info("Reminders sent", zap.Int("count", sent))
	}
}

func (s *Scheduler) inWindow(now time.Time) bool {
	h := now.Hour()
	return h >= s.startHour && h < s.endHour
}
