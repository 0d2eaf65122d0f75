package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lessonhub/backend/internal/models"
)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *catalogRepository {
	return &catalogRepository{
		db: db,
	}
}

// GetThemes retrieves all themes
func (r *catalogRepository) GetThemes(ctx context.Context) ([]models.Theme, error) {
	query := `
		SELECT id, title, description
		FROM themes
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query themes: %w", err)
	}
	defer rows.Close()

	themes := []models.Theme{}
	for rows.Next() {
		var theme models.Theme
		if err := rows.Scan(&theme.ID, &theme.Title, &theme.Description); err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, theme)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return themes, nil
}

// GetSubtopicsByThemeID retrieves all subtopics of a theme
func (r *catalogRepository) GetSubtopicsByThemeID(ctx context.Context, themeID int) ([]models.Subtopic, error) {
	query := `
		SELECT id, theme_id, title, description
		FROM subtopics
		WHERE theme_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, themeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtopics: %w", err)
	}
	defer rows.Close()

	subtopics := []models.Subtopic{}
	for rows.Next() {
		var subtopic models.Subtopic
		if err := rows.Scan(&subtopic.ID, &subtopic.ThemeID, &subtopic.Title, &subtopic.Description); err != nil {
			return nil, fmt.Errorf("failed to scan subtopic: %w", err)
		}
		subtopics = append(subtopics, subtopic)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return subtopics, nil
}

// GetLessonsBySubtopicID retrieves all lessons of a subtopic
func (r *catalogRepository) GetLessonsBySubtopicID(ctx context.Context, subtopicID int) ([]models.Lesson, error) {
	query := `
		SELECT id, subtopic_id, title, description, duration
		FROM lessons
		WHERE subtopic_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, subtopicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.SubtopicID, &lesson.Title, &lesson.Description, &lesson.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}
