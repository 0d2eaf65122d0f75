package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/lessonhub/backend/internal/models"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const errorReply = "Something went wrong, please try again later."

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	user, err := h.resolveSender(c)
	if err != nil {
		h.logger.Error("failed to resolve sender", zap.Error(err))
		return c.Send(errorReply)
	}

	h.logger.Info("user started bot",
		zap.Int("user_id", user.ID),
		zap.Int64("telegram_id", c.Sender().ID),
	)

	return c.Send("Welcome! Use /completed to see your completed lessons and /favorites to see your favorite lessons.")
}

// handleCompleted handles /completed command
func (h *Handler) handleCompleted(c tele.Context) error {
	user, err := h.resolveSender(c)
	if err != nil {
		h.logger.Error("failed to resolve sender", zap.Error(err))
		return c.Send(errorReply)
	}

	lessons, err := h.progressService.ListCompleted(context.Background(), user.ID)
	if err != nil {
		h.logger.Error("failed to list completed lessons",
			zap.Int("user_id", user.ID),
			zap.Error(err),
		)
		return c.Send(errorReply)
	}

	if len(lessons) == 0 {
		return c.Send("You have not completed any lessons yet.")
	}

	return c.Send(formatLessonList("Completed lessons", lessons))
}

// handleFavorites handles /favorites command
func (h *Handler) handleFavorites(c tele.Context) error {
	user, err := h.resolveSender(c)
	if err != nil {
		h.logger.Error("failed to resolve sender", zap.Error(err))
		return c.Send(errorReply)
	}

	lessons, err := h.progressService.ListFavorites(context.Background(), user.ID)
	if err != nil {
		h.logger.Error("failed to list favorite lessons",
			zap.Int("user_id", user.ID),
			zap.Error(err),
		)
		return c.Send(errorReply)
	}

	if len(lessons) == 0 {
		return c.Send("You have no favorite lessons yet.")
	}

	return c.Send(formatLessonList("Favorite lessons", lessons))
}

// formatLessonList renders enriched lessons as a numbered text list
func formatLessonList(title string, lessons []models.EnrichedLesson) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n", title, len(lessons))
	for i, lesson := range lessons {
		fmt.Fprintf(&b, "%d. %s (%s / %s)\n", i+1, lesson.Title, lesson.Theme.Title, lesson.Subtopic.Title)
	}
	return b.String()
}
