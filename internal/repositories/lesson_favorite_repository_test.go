package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFavoriteTestRepository creates a lesson favorite repository with a mock database
func setupFavoriteTestRepository(t *testing.T) (*lessonFavoriteRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewLessonFavoriteRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewLessonFavoriteRepository(t *testing.T) {
	repo, _, cleanup := setupFavoriteTestRepository(t)
	defer cleanup()

	assert.NotNil(t, repo)
}

func TestLessonFavoriteRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		userID        int
		lessonID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name:     "success",
			userID:   1,
			lessonID: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_favorites \(user_id, lesson_id\) VALUES \(\?, \?\) ON DUPLICATE KEY UPDATE lesson_id = lesson_id`).
					WithArgs(1, 10).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedError: false,
		},
		{
			name:     "already favorited is a no-op",
			userID:   1,
			lessonID: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_favorites \(user_id, lesson_id\) VALUES \(\?, \?\) ON DUPLICATE KEY UPDATE lesson_id = lesson_id`).
					WithArgs(1, 10).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: false,
		},
		{
			name:     "database error",
			userID:   1,
			lessonID: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_favorites`).
					WithArgs(1, 10).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupFavoriteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.userID, tt.lessonID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to create favorite record")
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLessonFavoriteRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		userID        int
		lessonID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name:     "success",
			userID:   1,
			lessonID: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM lesson_favorites WHERE user_id = \? AND lesson_id = \?`).
					WithArgs(1, 10).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedError: false,
		},
		{
			name:     "removing absent favorite is a no-op",
			userID:   1,
			lessonID: 999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM lesson_favorites WHERE user_id = \? AND lesson_id = \?`).
					WithArgs(1, 999).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: false,
		},
		{
			name:     "database error",
			userID:   1,
			lessonID: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM lesson_favorites WHERE user_id = \? AND lesson_id = \?`).
					WithArgs(1, 10).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupFavoriteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Delete(context.Background(), tt.userID, tt.lessonID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to delete favorite record")
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLessonFavoriteRepository_GetEnrichedByUserID(t *testing.T) {
	enrichedColumns := []string{
		"id", "title", "description", "duration",
		"id", "theme_id", "title", "description",
		"id", "title", "description",
		"favorited_at",
	}

	favoritedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupFavoriteTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(enrichedColumns).
			AddRow(11, "Slices", "slice internals", 20, 4, 2, "Data Structures", "collections", 2, "Go Basics", "basics theme", favoritedAt)

		mock.ExpectQuery(`SELECT .* FROM lesson_favorites lf JOIN lessons l ON l.id = lf.lesson_id JOIN subtopics s ON s.id = l.subtopic_id JOIN themes t ON t.id = s.theme_id WHERE lf.user_id = \? ORDER BY lf.favorited_at DESC, lf.id DESC`).
			WithArgs(3).
			WillReturnRows(rows)

		lessons, err := repo.GetEnrichedByUserID(context.Background(), 3)

		assert.NoError(t, err)
		require.Len(t, lessons, 1)
		assert.Equal(t, 11, lessons[0].ID)
		assert.Equal(t, "Data Structures", lessons[0].Subtopic.Title)
		assert.Equal(t, "Go Basics", lessons[0].Theme.Title)
		assert.Equal(t, favoritedAt, *lessons[0].FavoriteDate)
		assert.Nil(t, lessons[0].CompletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no favorites returns empty slice", func(t *testing.T) {
		repo, mock, cleanup := setupFavoriteTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM lesson_favorites lf`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows(enrichedColumns))

		lessons, err := repo.GetEnrichedByUserID(context.Background(), 4)

		assert.NoError(t, err)
		assert.NotNil(t, lessons)
		assert.Empty(t, lessons)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupFavoriteTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM lesson_favorites lf`).
			WithArgs(3).
			WillReturnError(errors.New("database error"))

		lessons, err := repo.GetEnrichedByUserID(context.Background(), 3)

		assert.Error(t, err)
		assert.Nil(t, lessons)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
