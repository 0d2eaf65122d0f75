package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lessonhub/backend/internal/models"
)

type lessonFavoriteRepository struct {
	db *sql.DB
}

// NewLessonFavoriteRepository creates a new lesson favorite repository
func NewLessonFavoriteRepository(db *sql.DB) *lessonFavoriteRepository {
	return &lessonFavoriteRepository{
		db: db,
	}
}

// Create adds the lesson to the user's favorites. Re-favoriting an already
// favorited lesson is a no-op and keeps the original favorite timestamp.
func (r *lessonFavoriteRepository) Create(ctx context.Context, userID, lessonID int) error {
	query := `
		INSERT INTO lesson_favorites (user_id, lesson_id)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE lesson_id = lesson_id
	`

	_, err := r.db.ExecContext(ctx, query, userID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to create favorite record: %w", err)
	}

	return nil
}

// Delete removes the lesson from the user's favorites. Removing a favorite
// that does not exist is not an error.
func (r *lessonFavoriteRepository) Delete(ctx context.Context, userID, lessonID int) error {
	query := `
		DELETE FROM lesson_favorites
		WHERE user_id = ? AND lesson_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, userID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite record: %w", err)
	}

	return nil
}

// GetEnrichedByUserID retrieves the user's favorited lessons joined with their
// subtopic and theme, most recently favorited first
func (r *lessonFavoriteRepository) GetEnrichedByUserID(ctx context.Context, userID int) ([]models.EnrichedLesson, error) {
	query := `
		SELECT
			l.id, l.title, l.description, l.duration,
			s.id, s.theme_id, s.title, s.description,
			t.id, t.title, t.description,
			lf.favorited_at
		FROM lesson_favorites lf
		JOIN lessons l ON l.id = lf.lesson_id
		JOIN subtopics s ON s.id = l.subtopic_id
		JOIN themes t ON t.id = s.theme_id
		WHERE lf.user_id = ?
		ORDER BY lf.favorited_at DESC, lf.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.EnrichedLesson{}
	for rows.Next() {
		var lesson models.EnrichedLesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.Title,
			&lesson.Description,
			&lesson.Duration,
			&lesson.Subtopic.ID,
			&lesson.Subtopic.ThemeID,
			&lesson.Subtopic.Title,
			&lesson.Subtopic.Description,
			&lesson.Theme.ID,
			&lesson.Theme.Title,
			&lesson.Theme.Description,
			&lesson.FavoriteDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}
