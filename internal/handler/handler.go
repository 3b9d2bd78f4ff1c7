package handler

import (
	"fmt"
	"sync"

	"wortschatz/internal/domain"
	"wortschatz/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	authService     *service.AuthService
	learningService *service.LearningService
	statsService    *service.StatsService
	logger          *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	learningService *service.LearningService,
	statsService *service.StatsService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		authService:     authService,
		learningService: learningService,
		statsService:    statsService,
		logger:          logger,
		states:          make(map[int64]*domain.StateData),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/review", h.handleStartSession)
	h.bot.Handle("/practice", h.handleStartPractice)
	h.bot.Handle("/stats", h.handleStats)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnStartSession, h.handleStartSession)
	h.bot.Handle(&btnPractice, h.handleStartPractice)
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnStopSession, h.handleStopSession)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// NotifyDue sends a due-review reminder to the user. It satisfies the
// scheduler's notifier contract.
func (h *Handler) NotifyDue(userID int64, dueCount int) error {
	text := fmt.Sprintf("⏰ You have %d words waiting for review. A few minutes now keeps them fresh!", dueCount)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnStartSession))

	_, err := h.bot.Send(&tele.User{ID: userID}, text, markup)
	return err
}

// Inline keyboard buttons
var (
	btnStartSession = tele.Btn{
		Unique: "start_session",
		Text:   "🎯 Start review",
	}
	btnPractice = tele.Btn{
		Unique: "practice",
		Text:   "💪 Practice weak words",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 My progress",
	}
	btnStopSession = tele.Btn{
		Unique: "stop_session",
		Text:   "⏹ Stop session",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

const mainMenuText = "🏠 Main menu\n\nWhat would you like to do?"

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnStartSession),
		menu.Row(btnPractice),
		menu.Row(btnStats),
	)
	return menu
}
