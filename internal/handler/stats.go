package handler

import (
	"fmt"
	"strings"

	"wortschatz/internal/domain"
	"wortschatz/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// stateLabels orders the dashboard rows from freshest to firmest.
var stateLabels = []struct {
	state domain.MemoryState
	label string
}{
	{domain.StateNew, "🆕 New"},
	{domain.StateLearning, "📖 Learning"},
	{domain.StateWeak, "🌱 Weak"},
	{domain.StateStrong, "💪 Strong"},
	{domain.StateMastered, "🏆 Mastered"},
}

// handleStats shows the progress dashboard and the weekly summary.
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	dash, err := h.statsService.Dashboard(userID)
	if err != nil {
		h.logger.Error("Failed to build dashboard",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Could not load your stats."})
		}
		return c.Send("Something went wrong. Please try again later.")
	}

	weekly, err := h.statsService.Weekly(userID)
	if err != nil {
		h.logger.Error("Failed to build weekly summary",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Could not load your stats."})
		}
		return c.Send("Something went wrong. Please try again later.")
	}

	text := renderStats(dash, weekly)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))

	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

func renderStats(dash *service.Dashboard, weekly *service.WeeklySummary) string {
	var b strings.Builder

	b.WriteString("📊 Your progress\n\n")
	fmt.Fprintf(&b, "Words in rotation: %d\n", dash.TotalItems)
	fmt.Fprintf(&b, "Due for review: %d\n\n", dash.DueCount)

	for _, row := range stateLabels {
		if n := dash.Distribution[row.state]; n > 0 {
			fmt.Fprintf(&b, "%s: %d\n", row.label, n)
		}
	}

	if dash.StreakDays > 0 {
		fmt.Fprintf(&b, "\n🔥 Streak: %d days (best: %d)\n", dash.StreakDays, dash.BestStreak)
	}

	if len(weekly.Days) > 0 {
		b.WriteString("\n📅 Last 7 days:\n")
		for _, day := range weekly.Days {
			fmt.Fprintf(&b, "%s — %d reviews, %.0f%% correct\n",
				day.DisplayString(), day.ReviewCount, day.Accuracy)
		}
		fmt.Fprintf(&b, "\nLearned %d new words this week.", weekly.WordsLearned)
	} else {
		b.WriteString("\nNo sessions in the last 7 days. Time to practice!")
	}

	return b.String()
}
