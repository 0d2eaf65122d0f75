package services

import (
	"context"
	"fmt"

	"github.com/lessonhub/backend/internal/models"
	"go.uber.org/zap"
)

// LessonCompletionRepository defines methods for lesson completion data access
type LessonCompletionRepository interface {
	// Create records a completion for a user and lesson pair, keeping the
	// original completion timestamp when the pair already exists
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns an error if any.
	Create(ctx context.Context, userID, lessonID int) error
	// GetEnrichedByUserID retrieves completed lessons with subtopic and theme
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the enriched lessons, most recent first, and an error if any.
	GetEnrichedByUserID(ctx context.Context, userID int) ([]models.EnrichedLesson, error)
}

// LessonFavoriteRepository defines methods for lesson favorite data access
type LessonFavoriteRepository interface {
	// Create adds a lesson to a user's favorites, keeping the original
	// favorite timestamp when the pair already exists
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns an error if any.
	Create(ctx context.Context, userID, lessonID int) error
	// Delete removes a lesson from a user's favorites; removing an absent
	// favorite is not an error
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns an error if any.
	Delete(ctx context.Context, userID, lessonID int) error
	// GetEnrichedByUserID retrieves favorited lessons with subtopic and theme
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the enriched lessons, most recent first, and an error if any.
	GetEnrichedByUserID(ctx context.Context, userID int) ([]models.EnrichedLesson, error)
}

type progressService struct {
	completionRepo LessonCompletionRepository
	favoriteRepo   LessonFavoriteRepository
	logger         *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(
	completionRepo LessonCompletionRepository,
	favoriteRepo LessonFavoriteRepository,
	logger *zap.Logger,
) *progressService {
	return &progressService{
		completionRepo: completionRepo,
		favoriteRepo:   favoriteRepo,
		logger:         logger,
	}
}

// MarkCompleted records a lesson completion. Idempotent: completing an
// already-completed lesson leaves the original row untouched.
func (s *progressService) MarkCompleted(ctx context.Context, userID, lessonID int) error {
	if lessonID <= 0 {
		return ErrInvalidLessonID
	}

	if err := s.completionRepo.Create(ctx, userID, lessonID); err != nil {
		s.logger.Error("failed to mark lesson completed",
			zap.Int("user_id", userID),
			zap.Int("lesson_id", lessonID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to mark lesson completed: %w", err)
	}

	return nil
}

// SetFavorite adds or removes a lesson from the user's favorites. Both
// directions are idempotent.
func (s *progressService) SetFavorite(ctx context.Context, userID, lessonID int, active bool) error {
	if lessonID <= 0 {
		return ErrInvalidLessonID
	}

	var err error
	if active {
		err = s.favoriteRepo.Create(ctx, userID, lessonID)
	} else {
		err = s.favoriteRepo.Delete(ctx, userID, lessonID)
	}
	if err != nil {
		s.logger.Error("failed to set favorite",
			zap.Int("user_id", userID),
			zap.Int("lesson_id", lessonID),
			zap.Bool("active", active),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set favorite: %w", err)
	}

	return nil
}

// ListCompleted retrieves the user's completed lessons enriched with subtopic
// and theme, most recent completion first
func (s *progressService) ListCompleted(ctx context.Context, userID int) ([]models.EnrichedLesson, error) {
	lessons, err := s.completionRepo.GetEnrichedByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list completed lessons",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list completed lessons: %w", err)
	}

	return lessons, nil
}

// ListFavorites retrieves the user's favorited lessons enriched with subtopic
// and theme, most recently favorited first
func (s *progressService) ListFavorites(ctx context.Context, userID int) ([]models.EnrichedLesson, error) {
	lessons, err := s.favoriteRepo.GetEnrichedByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list favorite lessons",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list favorite lessons: %w", err)
	}

	return lessons, nil
}
