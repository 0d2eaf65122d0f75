package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lessonhub/backend/internal/middlewares"
	"github.com/lessonhub/backend/internal/models"
	"github.com/lessonhub/backend/internal/services"
	"go.uber.org/zap"
)

// ProgressService is the interface that wraps methods for lesson progress operations
type ProgressService interface {
	// MarkCompleted records a lesson completion for a user (idempotent)
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns an error if any.
	MarkCompleted(ctx context.Context, userID, lessonID int) error
	// SetFavorite adds or removes a lesson from a user's favorites (idempotent)
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	// "active" is true to favorite and false to un-favorite.
	//
	// Returns an error if any.
	SetFavorite(ctx context.Context, userID, lessonID int, active bool) error
	// ListCompleted retrieves the user's completed lessons with subtopic and theme
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the enriched lessons, most recent first, and an error if any.
	ListCompleted(ctx context.Context, userID int) ([]models.EnrichedLesson, error)
	// ListFavorites retrieves the user's favorited lessons with subtopic and theme
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the enriched lessons, most recent first, and an error if any.
	ListFavorites(ctx context.Context, userID int) ([]models.EnrichedLesson, error)
}

// ProgressHandler handles HTTP requests for lesson progress operations
type ProgressHandler struct {
	BaseHandler
	service ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all progress handler routes behind the given
// identity middleware. The same routes are mounted once behind the session
// middleware and once behind the strict Telegram middleware.
func (h *ProgressHandler) RegisterRoutes(r chi.Router, identityMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(identityMiddleware)
		r.Get("/completed/lessons", h.ListCompleted)
		r.Get("/favorites/lessons", h.ListFavorites)
		r.Post("/lessons/{lessonId}/complete", h.MarkCompleted)
		r.Post("/lessons/{lessonId}/favorite", h.AddFavorite)
		r.Delete("/lessons/{lessonId}/favorite", h.RemoveFavorite)
	})
}

// ListCompleted handles GET /completed/lessons
// @Summary Get completed lessons
// @Description Get the caller's completed lessons with subtopic and theme, most recent first
// @Tags progress
// @Accept json
// @Produce json
// @Param x-session-id header string false "Session token (defaults to anonymous)"
// @Success 200 {object} models.ProgressListResponse "Completed lessons"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /completed/lessons [get]
func (h *ProgressHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	lessons, err := h.service.ListCompleted(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("failed to list completed lessons", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list completed lessons")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.ProgressListResponse{
		Lessons: lessons,
		Count:   len(lessons),
	})
}

// ListFavorites handles GET /favorites/lessons
// @Summary Get favorite lessons
// @Description Get the caller's favorited lessons with subtopic and theme, most recent first
// @Tags progress
// @Accept json
// @Produce json
// @Param x-session-id header string false "Session token (defaults to anonymous)"
// @Success 200 {object} models.ProgressListResponse "Favorite lessons"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /favorites/lessons [get]
func (h *ProgressHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	lessons, err := h.service.ListFavorites(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("failed to list favorite lessons", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list favorite lessons")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.ProgressListResponse{
		Lessons: lessons,
		Count:   len(lessons),
	})
}

// MarkCompleted handles POST /lessons/{lessonId}/complete
// @Summary Mark a lesson completed
// @Description Record a lesson completion for the caller; completing an already-completed lesson is a no-op
// @Tags progress
// @Accept json
// @Produce json
// @Param x-session-id header string false "Session token (defaults to anonymous)"
// @Param lessonId path int true "Lesson ID"
// @Success 204 "Completion recorded"
// @Failure 400 {object} map[string]string "Invalid lesson id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonId}/complete [post]
func (h *ProgressHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	lessonID, ok := h.parseLessonID(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkCompleted(r.Context(), user.ID, lessonID); err != nil {
		h.respondProgressError(w, err, "failed to mark lesson completed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite handles POST /lessons/{lessonId}/favorite
// @Summary Favorite a lesson
// @Description Add a lesson to the caller's favorites; re-favoriting is a no-op
// @Tags progress
// @Accept json
// @Produce json
// @Param x-session-id header string false "Session token (defaults to anonymous)"
// @Param lessonId path int true "Lesson ID"
// @Success 204 "Favorite recorded"
// @Failure 400 {object} map[string]string "Invalid lesson id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonId}/favorite [post]
func (h *ProgressHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, true)
}

// RemoveFavorite handles DELETE /lessons/{lessonId}/favorite
// @Summary Un-favorite a lesson
// @Description Remove a lesson from the caller's favorites; removing an absent favorite is a no-op
// @Tags progress
// @Accept json
// @Produce json
// @Param x-session-id header string false "Session token (defaults to anonymous)"
// @Param lessonId path int true "Lesson ID"
// @Success 204 "Favorite removed"
// @Failure 400 {object} map[string]string "Invalid lesson id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonId}/favorite [delete]
func (h *ProgressHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, false)
}

func (h *ProgressHandler) setFavorite(w http.ResponseWriter, r *http.Request, active bool) {
	user, ok := middlewares.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	lessonID, ok := h.parseLessonID(w, r)
	if !ok {
		return
	}

	if err := h.service.SetFavorite(r.Context(), user.ID, lessonID, active); err != nil {
		h.respondProgressError(w, err, "failed to set favorite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseLessonID parses the lessonId path parameter, rejecting anything that is
// not a positive integer before the service layer is reached
func (h *ProgressHandler) parseLessonID(w http.ResponseWriter, r *http.Request) (int, bool) {
	lessonIDStr := chi.URLParam(r, "lessonId")
	lessonID, err := strconv.Atoi(lessonIDStr)
	if err != nil || lessonID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "lesson id must be a positive integer")
		return 0, false
	}
	return lessonID, true
}

func (h *ProgressHandler) respondProgressError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, services.ErrInvalidLessonID) {
		h.RespondError(w, http.StatusBadRequest, "lesson id must be a positive integer")
		return
	}

	h.Logger.Error(message, zap.Error(err))
	h.RespondError(w, http.StatusInternalServerError, message)
}
