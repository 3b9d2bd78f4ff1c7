package middleware

import (
	"wortschatz/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			// Ensure user exists
			if err := authService.EnsureUserExists(userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send("Something went wrong. Please try again later.")
			}

			// Check authorization
			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send("Something went wrong. Please try again later.")
			}

			// Unauthorized users may only run /start or type the password
			if !authorized && c.Text() != "/start" && !authService.CheckPassword(c.Text()) {
				return c.Send("This bot is invite-only. Enter the password to continue:")
			}

			return next(c)
		}
	}
}
