package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wortschatz/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStartSession starts a mixed review session.
func (h *Handler) handleStartSession(c tele.Context) error {
	return h.startSession(c, false)
}

// handleStartPractice starts a focused practice session.
func (h *Handler) handleStartPractice(c tele.Context) error {
	return h.startSession(c, true)
}

func (h *Handler) startSession(c tele.Context, practice bool) error {
	userID := c.Sender().ID

	var queue *domain.SessionQueue
	var err error
	if practice {
		queue, err = h.learningService.StartPractice(userID)
	} else {
		queue, err = h.learningService.StartSession(userID)
	}

	if err != nil {
		var noItems *domain.NoItemsError
		if errors.As(err, &noItems) {
			return h.sendNoItems(c, noItems.Reason)
		}
		h.logger.Error("Failed to start session",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return c.Send("Something went wrong. Please try again later.")
	}

	h.SetState(userID, &domain.StateData{
		State:   domain.StateInSession,
		Session: queue,
	})

	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Debug("Failed to acknowledge callback", zap.Error(err))
		}
	}

	return h.sendNextExercise(c, userID, queue)
}

// sendNoItems explains why no session could be assembled.
func (h *Handler) sendNoItems(c tele.Context, reason domain.NoItemsReason) error {
	var text string
	switch reason {
	case domain.ReasonEmptyVocabulary:
		text = "📭 The vocabulary is empty. Ask the admin to import word lists first."
	case domain.ReasonAllMastered:
		text = "🏆 Impressive! You have mastered every word at your level. Check back later for reviews."
	default:
		text = "😴 Nothing to review right now. Come back when words are due!"
	}

	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text, mainMenuMarkup())
}

// sendNextExercise advances the session queue and presents the next
// drill, or the completion summary when the queue is exhausted.
func (h *Handler) sendNextExercise(c tele.Context, userID int64, queue *domain.SessionQueue) error {
	ex, err := h.learningService.NextExercise(queue)
	if err != nil {
		h.logger.Error("Failed to build exercise",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		h.ResetState(userID)
		return c.Send("Something went wrong. Please try again later.")
	}

	if ex == nil {
		return h.finishSession(c, userID, queue)
	}

	text := renderExercise(ex, queue)

	if len(ex.Options) > 0 {
		markup := &tele.ReplyMarkup{}
		rows := make([]tele.Row, 0, len(ex.Options)+1)
		for i, opt := range ex.Options {
			rows = append(rows, markup.Row(markup.Data(opt, fmt.Sprintf("ans_%d", i))))
		}
		rows = append(rows, markup.Row(btnStopSession))
		markup.Inline(rows...)
		return c.Send(text, markup)
	}

	// Free-text exercises wait for a typed reply.
	h.SetState(userID, &domain.StateData{
		State:   domain.StateWaitingTyping,
		Session: queue,
	})

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnStopSession))
	return c.Send(text, markup)
}

// renderExercise formats one drill for Telegram.
func renderExercise(ex *domain.Exercise, queue *domain.SessionQueue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question %d of %d\n\n", queue.Position(), queue.Len())

	switch ex.Type {
	case domain.ExerciseRecognition:
		fmt.Fprintf(&b, "🆕 New word:\n\n%s", ex.Question)
	case domain.ExerciseSentenceCompletion:
		fmt.Fprintf(&b, "✍️ %s\n\n%s", ex.Question, ex.Sentence)
	case domain.ExerciseListening:
		fmt.Fprintf(&b, "🔊 %s\n\n%s", ex.Question, ex.Pronunciation)
	case domain.ExerciseTyping, domain.ExerciseReverseTranslation:
		fmt.Fprintf(&b, "⌨️ %s", ex.Question)
	default:
		fmt.Fprintf(&b, "❓ %s", ex.Question)
	}

	if ex.Hint != "" && ex.Type != domain.ExerciseRecognition {
		fmt.Fprintf(&b, "\n\n💡 %s", ex.Hint)
	}

	return b.String()
}

// handleAnswerCallback resolves an "ans_<index>" button press against
// the current exercise's option list.
func (h *Handler) handleAnswerCallback(c tele.Context, data string) error {
	userID := c.Sender().ID

	state := h.GetState(userID)
	if state.Session == nil || state.Session.Current == nil {
		return c.Respond(&tele.CallbackResponse{Text: "This session has ended."})
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(data, "ans_"))
	if err != nil || idx < 0 || idx >= len(state.Session.Current.Options) {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown answer."})
	}

	answer := state.Session.Current.Options[idx]
	return h.submitAnswer(c, userID, state.Session, answer)
}

// submitAnswer records one answer and moves the session forward.
func (h *Handler) submitAnswer(c tele.Context, userID int64, queue *domain.SessionQueue, answer string) error {
	feedback, err := h.learningService.SubmitAnswer(queue, answer)
	if err != nil {
		h.logger.Error("Failed to submit answer",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Could not save your answer, try again."})
		}
		return c.Send("Could not save your answer, please try again.")
	}

	h.SetState(userID, &domain.StateData{
		State:   domain.StateInSession,
		Session: queue,
	})

	text := renderFeedback(feedback.Correct, feedback.CorrectAnswer)
	if c.Callback() != nil {
		if err := c.Edit(text); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr != nil {
				if sendErr := c.Send(text); sendErr != nil {
					return sendErr
				}
			}
		} else if err := c.Respond(); err != nil {
			h.logger.Debug("Failed to acknowledge callback", zap.Error(err))
		}
	} else {
		if err := c.Send(text); err != nil {
			return err
		}
	}

	return h.sendNextExercise(c, userID, queue)
}

func renderFeedback(correct bool, correctAnswer string) string {
	if correct {
		return "✅ Correct!"
	}
	if correctAnswer == "" {
		return "❌ Not quite."
	}
	return fmt.Sprintf("❌ Not quite. The answer is: %s", correctAnswer)
}

// finishSession closes the session and shows the summary.
func (h *Handler) finishSession(c tele.Context, userID int64, queue *domain.SessionQueue) error {
	h.ResetState(userID)

	if err := h.statsService.UpdateStreak(userID); err != nil {
		h.logger.Warn("Failed to update streak",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	text := fmt.Sprintf("🎉 Session complete!\n\nYou worked through %d words. Keep it up!", queue.Len())
	return c.Send(text, mainMenuMarkup())
}

// handleStopSession aborts the active session early.
func (h *Handler) handleStopSession(c tele.Context) error {
	userID := c.Sender().ID

	state := h.GetState(userID)
	if state.Session != nil {
		// Let the remaining items come back in a later session.
		state.Session.Cursor = state.Session.Len()
		if _, err := h.learningService.NextExercise(state.Session); err != nil {
			h.logger.Warn("Failed to close session",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	h.ResetState(userID)

	if err := c.Edit(mainMenuText, mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(mainMenuText, mainMenuMarkup())
	}
	return c.Respond()
}
