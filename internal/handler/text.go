package handler

import (
	"strings"

	"wortschatz/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Ensure user exists
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("Something went wrong. Please try again later.")
	}

	// If not authorized, check password
	if !authorized {
		if h.authService.CheckPassword(text) {
			// Correct password
			if err := h.authService.AuthorizeUser(userID); err != nil {
				h.logger.Error("Failed to authorize user", zap.Error(err))
				return c.Send("Something went wrong. Please try again later.")
			}

			h.logger.Info("User authorized", zap.Int64("user_id", userID))
			h.ResetState(userID)
			return c.Send("✅ You're in!\n\n"+mainMenuText, mainMenuMarkup())
		}

		// Wrong password
		return c.Send("Wrong password. Try again:")
	}

	// User is authorized, handle based on state
	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingTyping:
		if state.Session == nil || state.Session.Current == nil {
			h.ResetState(userID)
			return c.Send(mainMenuText, mainMenuMarkup())
		}
		return h.submitAnswer(c, userID, state.Session, text)

	case domain.StateInSession:
		// Mid-session text that isn't an answer to a typing drill.
		return c.Send("Use the buttons above to answer, or stop the session first.")

	default:
		return c.Send(mainMenuText, mainMenuMarkup())
	}
}
