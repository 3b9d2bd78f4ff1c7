package handler

import (
	"wortschatz/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send("Something went wrong. Please try again later.")
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("Something went wrong. Please try again later.")
	}

	if !authorized {
		// Request password
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingPassword})
		return c.Send("Hi! This bot is invite-only. Enter the password to continue:")
	}

	// Show main menu
	h.ResetState(userID)

	if c.Callback() != nil {
		if err := c.Edit(mainMenuText, mainMenuMarkup()); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(mainMenuText, mainMenuMarkup())
		}
		return c.Respond()
	}
	return c.Send(mainMenuText, mainMenuMarkup())
}
