package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lessonhub/backend/internal/models"
)

type lessonCompletionRepository struct {
	db *sql.DB
}

// NewLessonCompletionRepository creates a new lesson completion repository
func NewLessonCompletionRepository(db *sql.DB) *lessonCompletionRepository {
	return &lessonCompletionRepository{
		db: db,
	}
}

// Create records a completion for (userID, lessonID). The unique key on
// (user_id, lesson_id) makes the insert a no-op when the pair already exists,
// so the first completion timestamp is preserved.
func (r *lessonCompletionRepository) Create(ctx context.Context, userID, lessonID int) error {
	query := `
		INSERT INTO lesson_completions (user_id, lesson_id)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE lesson_id = lesson_id
	`

	_, err := r.db.ExecContext(ctx, query, userID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to create completion record: %w", err)
	}

	return nil
}

// GetEnrichedByUserID retrieves the user's completed lessons joined with their
// subtopic and theme, most recent completion first
func (r *lessonCompletionRepository) GetEnrichedByUserID(ctx context.Context, userID int) ([]models.EnrichedLesson, error) {
	query := `
		SELECT
			l.id, l.title, l.description, l.duration,
			s.id, s.theme_id, s.title, s.description,
			t.id, t.title, t.description,
			lc.completed_at
		FROM lesson_completions lc
		JOIN lessons l ON l.id = lc.lesson_id
		JOIN subtopics s ON s.id = l.subtopic_id
		JOIN themes t ON t.id = s.theme_id
		WHERE lc.user_id = ?
		ORDER BY lc.completed_at DESC, lc.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
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
			&lesson.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completed lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}
