// Package bot implements the Telegram surface of the lesson progress service
package bot

import (
	"context"
	"strconv"

	"github.com/lessonhub/backend/internal/models"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// IdentityResolver resolves a Telegram sender to a canonical user
type IdentityResolver interface {
	// ResolveByTelegramID resolves a user by Telegram identifier, creating
	// the user on first contact
	//
	// "ctx" is the context for the request.
	// "telegramID" is the Telegram identifier of the sender.
	//
	// Returns the user and an error if any.
	ResolveByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
}

// ProgressService reads a user's lesson progress
type ProgressService interface {
	// ListCompleted retrieves the user's completed lessons, most recent first
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the enriched lessons and an error if any.
	ListCompleted(ctx context.Context, userID int) ([]models.EnrichedLesson, error)
	// ListFavorites retrieves the user's favorited lessons, most recent first
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the enriched lessons and an error if any.
	ListFavorites(ctx context.Context, userID int) ([]models.EnrichedLesson, error)
}

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	identityService IdentityResolver
	progressService ProgressService
	logger          *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	identityService IdentityResolver,
	progressService ProgressService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		identityService: identityService,
		progressService: progressService,
		logger:          logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/completed", h.handleCompleted)
	h.bot.Handle("/favorites", h.handleFavorites)
}

// resolveSender maps the message sender to a user, creating one on first contact
func (h *Handler) resolveSender(c tele.Context) (*models.User, error) {
	telegramID := strconv.FormatInt(c.Sender().ID, 10)
	return h.identityService.ResolveByTelegramID(context.Background(), telegramID)
}
