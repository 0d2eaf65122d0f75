package services

import (
	"context"
	"fmt"

	"github.com/lessonhub/backend/internal/models"
)

// CatalogRepository defines methods for catalog data access
type CatalogRepository interface {
	// GetThemes retrieves all themes
	//
	// "ctx" is the context for the request.
	//
	// Returns a list of themes and an error if any.
	GetThemes(ctx context.Context) ([]models.Theme, error)
	// GetSubtopicsByThemeID retrieves all subtopics of a theme
	//
	// "ctx" is the context for the request.
	// "themeID" is the ID of the theme.
	//
	// Returns a list of subtopics and an error if any.
	GetSubtopicsByThemeID(ctx context.Context, themeID int) ([]models.Subtopic, error)
	// GetLessonsBySubtopicID retrieves all lessons of a subtopic
	//
	// "ctx" is the context for the request.
	// "subtopicID" is the ID of the subtopic.
	//
	// Returns a list of lessons and an error if any.
	GetLessonsBySubtopicID(ctx context.Context, subtopicID int) ([]models.Lesson, error)
}

type catalogService struct {
	catalogRepo CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo CatalogRepository) *catalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
	}
}

// GetThemes retrieves all themes
func (s *catalogService) GetThemes(ctx context.Context) ([]models.Theme, error) {
	return s.catalogRepo.GetThemes(ctx)
}

// GetSubtopics retrieves the subtopics of a theme
func (s *catalogService) GetSubtopics(ctx context.Context, themeID int) ([]models.Subtopic, error) {
	if themeID <= 0 {
		return nil, fmt.Errorf("invalid theme id")
	}

	return s.catalogRepo.GetSubtopicsByThemeID(ctx, themeID)
}

// GetLessons retrieves the lessons of a subtopic
func (s *catalogService) GetLessons(ctx context.Context, subtopicID int) ([]models.Lesson, error) {
	if subtopicID <= 0 {
		return nil, fmt.Errorf("invalid subtopic id")
	}

	return s.catalogRepo.GetLessonsBySubtopicID(ctx, subtopicID)
}
