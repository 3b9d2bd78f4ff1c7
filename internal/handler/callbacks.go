package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// If message is not modified, it means it was already edited by another callback
	// Just acknowledge and return nil - don't send new message
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	// Log the error to understand why Edit failed
	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Handle specific button callbacks by Unique first
	switch callback.Unique {
	case "start_session":
		return h.handleStartSession(c)
	case "practice":
		return h.handleStartPractice(c)
	case "stats":
		return h.handleStats(c)
	case "stop_session":
		return h.handleStopSession(c)
	case "main_menu":
		return h.handleStart(c)
	}

	// If Unique is empty, try to handle by Data (for buttons with Unique that didn't come through)
	if callback.Unique == "" {
		switch data {
		case "start_session":
			return h.handleStartSession(c)
		case "practice":
			return h.handleStartPractice(c)
		case "stats":
			return h.handleStats(c)
		case "stop_session":
			return h.handleStopSession(c)
		case "main_menu":
			return h.handleStart(c)
		}
	}

	// Handle by Data prefix (dynamic buttons)
	if strings.HasPrefix(data, "ans_") {
		return h.handleAnswerCallback(c, data)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
