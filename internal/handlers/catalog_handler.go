package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lessonhub/backend/internal/models"
	"go.uber.org/zap"
)

// CatalogService is the interface that wraps methods for catalog browsing
type CatalogService interface {
	// GetThemes retrieves all themes
	//
	// "ctx" is the context for the request.
	//
	// Returns a list of themes and an error if any.
	GetThemes(ctx context.Context) ([]models.Theme, error)
	// GetSubtopics retrieves the subtopics of a theme
	//
	// "ctx" is the context for the request.
	// "themeID" is the ID of the theme.
	//
	// Returns a list of subtopics and an error if any.
	GetSubtopics(ctx context.Context, themeID int) ([]models.Subtopic, error)
	// GetLessons retrieves the lessons of a subtopic
	//
	// "ctx" is the context for the request.
	// "subtopicID" is the ID of the subtopic.
	//
	// Returns a list of lessons and an error if any.
	GetLessons(ctx context.Context, subtopicID int) ([]models.Lesson, error)
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	BaseHandler
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all catalog handler routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/themes", h.GetThemes)
	r.Get("/themes/{themeId}/subtopics", h.GetSubtopics)
	r.Get("/subtopics/{subtopicId}/lessons", h.GetLessons)
}

// GetThemes handles GET /themes
// @Summary Get all themes
// @Description Get the list of content themes
// @Tags catalog
// @Accept json
// @Produce json
// @Success 200 {array} models.Theme "List of themes"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /themes [get]
func (h *CatalogHandler) GetThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.service.GetThemes(r.Context())
	if err != nil {
		h.Logger.Error("failed to get themes", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get themes")
		return
	}

	h.RespondJSON(w, http.StatusOK, themes)
}

// GetSubtopics handles GET /themes/{themeId}/subtopics
// @Summary Get subtopics of a theme
// @Description Get the list of subtopics belonging to a theme
// @Tags catalog
// @Accept json
// @Produce json
// @Param themeId path int true "Theme ID"
// @Success 200 {array} models.Subtopic "List of subtopics"
// @Failure 400 {object} map[string]string "Invalid theme id"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /themes/{themeId}/subtopics [get]
func (h *CatalogHandler) GetSubtopics(w http.ResponseWriter, r *http.Request) {
	themeID, err := strconv.Atoi(chi.URLParam(r, "themeId"))
	if err != nil || themeID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "theme id must be a positive integer")
		return
	}

	subtopics, err := h.service.GetSubtopics(r.Context(), themeID)
	if err != nil {
		h.Logger.Error("failed to get subtopics", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get subtopics")
		return
	}

	h.RespondJSON(w, http.StatusOK, subtopics)
}

// GetLessons handles GET /subtopics/{subtopicId}/lessons
// @Summary Get lessons of a subtopic
// @Description Get the list of lessons belonging to a subtopic
// @Tags catalog
// @Accept json
// @Produce json
// @Param subtopicId path int true "Subtopic ID"
// @Success 200 {array} models.Lesson "List of lessons"
// @Failure 400 {object} map[string]string "Invalid subtopic id"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /subtopics/{subtopicId}/lessons [get]
func (h *CatalogHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	subtopicID, err := strconv.Atoi(chi.URLParam(r, "subtopicId"))
	if err != nil || subtopicID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "subtopic id must be a positive integer")
		return
	}

	lessons, err := h.service.GetLessons(r.Context(), subtopicID)
	if err != nil {
		h.Logger.Error("failed to get lessons", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get lessons")
		return
	}

	h.RespondJSON(w, http.StatusOK, lessons)
}
