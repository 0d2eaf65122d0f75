package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/lessonhub/backend/internal/config"
	"github.com/lessonhub/backend/internal/handlers"
	"github.com/lessonhub/backend/internal/middlewares"
	"github.com/lessonhub/backend/internal/models"
	"github.com/lessonhub/backend/internal/repositories"
	"github.com/lessonhub/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testRouter chi.Router
	testLogger *zap.Logger
)

// TestMain sets up and tears down the test environment. When no test database
// is reachable the tests are skipped rather than failed.
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	dsn := cfg.DSN()
	if cfg.Database.Host == "" {
		// Default test database connection
		dsn = "root:password@tcp(localhost:3306)/lessonhub_test?parseTime=true&charset=utf8mb4"
	}

	testDB, err = sql.Open("mysql", dsn)
	if err == nil {
		if err = testDB.Ping(); err != nil {
			testDB.Close()
			testDB = nil
		}
	} else {
		testDB = nil
	}

	if testDB != nil {
		setupTestSchema(testDB)
		testRouter = setupTestRouter(testDB, testLogger)
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// requireTestDB skips the test when no test database is available
func requireTestDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if testDB == nil {
		t.Skip("Skipping integration tests: test database not available")
	}
}

// setupTestRouter creates a test router mirroring the cmd/api wiring
func setupTestRouter(db *sql.DB, logger *zap.Logger) chi.Router {
	userRepo := repositories.NewUserRepository(db, logger)
	completionRepo := repositories.NewLessonCompletionRepository(db)
	favoriteRepo := repositories.NewLessonFavoriteRepository(db)

	identityService := services.NewIdentityService(userRepo, logger)
	progressService := services.NewProgressService(completionRepo, favoriteRepo, logger)

	progressHandler := handlers.NewProgressHandler(progressService, logger)

	sessionMiddleware := middlewares.SessionIdentityMiddleware(identityService, logger)
	telegramMiddleware := middlewares.TelegramIdentityMiddleware(identityService, logger)

	r := chi.NewRouter()
	progressHandler.RegisterRoutes(r, sessionMiddleware)
	r.Route("/telegram", func(r chi.Router) {
		progressHandler.RegisterRoutes(r, telegramMiddleware)
	})

	return r
}

// setupTestSchema creates the test database schema
func setupTestSchema(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			session_token VARCHAR(255) NULL,
			telegram_id VARCHAR(64) NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_session_token (session_token),
			UNIQUE KEY uq_users_telegram_id (telegram_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS themes (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS subtopics (
			id INT AUTO_INCREMENT PRIMARY KEY,
			theme_id INT NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id INT AUTO_INCREMENT PRIMARY KEY,
			subtopic_id INT NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			duration INT NOT NULL DEFAULT 0
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS lesson_completions (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			lesson_id INT NOT NULL,
			completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_completions_user_lesson (user_id, lesson_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS lesson_favorites (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			lesson_id INT NOT NULL,
			favorited_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_favorites_user_lesson (user_id, lesson_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, q := range queries {
		db.Exec(q)
	}
}

// seedTestData inserts catalog test data
func seedTestData(t *testing.T, db *sql.DB) {
	t.Helper()

	cleanupTestData(t, db)

	_, err := db.Exec(`INSERT INTO themes (id, title, description) VALUES (1, 'Go', 'the go language')`)
	require.NoError(t, err, "Failed to seed themes")

	_, err = db.Exec(`INSERT INTO subtopics (id, theme_id, title, description) VALUES (1, 1, 'Concurrency', 'goroutines and friends')`)
	require.NoError(t, err, "Failed to seed subtopics")

	_, err = db.Exec(`
		INSERT INTO lessons (id, subtopic_id, title, description, duration) VALUES
		(1, 1, 'Goroutines', 'lightweight threads', 10),
		(2, 1, 'Channels', 'typed conduits', 15),
		(3, 1, 'Select', 'multiplexing', 12)
	`)
	require.NoError(t, err, "Failed to seed lessons")
}

// cleanupTestData removes all test data
func cleanupTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range []string{"lesson_completions", "lesson_favorites", "lessons", "subtopics", "themes", "users"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to cleanup test data")
	}
}

func doRequest(t *testing.T, method, path, sessionToken string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if sessionToken != "" {
		req.Header.Set("x-session-id", sessionToken)
	}
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	return rec
}

func TestIntegration_CompleteAndListLessons(t *testing.T) {
	requireTestDB(t)
	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	// Complete lessons 1, 2, 3 in order
	for _, lessonID := range []int{1, 2, 3} {
		rec := doRequest(t, http.MethodPost, fmt.Sprintf("/lessons/%d/complete", lessonID), "session-int-1")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		time.Sleep(1100 * time.Millisecond) // distinct TIMESTAMP values
	}

	// Re-completing lesson 1 is a no-op
	rec := doRequest(t, http.MethodPost, "/lessons/1/complete", "session-int-1")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, http.MethodGet, "/completed/lessons", "session-int-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProgressListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Lessons, 3)

	// Most recent first
	assert.Equal(t, 3, resp.Lessons[0].ID)
	assert.Equal(t, 2, resp.Lessons[1].ID)
	assert.Equal(t, 1, resp.Lessons[2].ID)

	// Join completeness
	assert.Equal(t, "Concurrency", resp.Lessons[0].Subtopic.Title)
	assert.Equal(t, "Go", resp.Lessons[0].Theme.Title)
	assert.NotNil(t, resp.Lessons[0].CompletedAt)
	assert.Nil(t, resp.Lessons[0].FavoriteDate)
}

func TestIntegration_FavoriteToggle(t *testing.T) {
	requireTestDB(t)
	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	// Favorite, then un-favorite
	rec := doRequest(t, http.MethodPost, "/lessons/2/favorite", "session-int-2")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, http.MethodDelete, "/lessons/2/favorite", "session-int-2")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, http.MethodGet, "/favorites/lessons", "session-int-2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProgressListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Lessons)

	// Favorite twice leaves exactly one row
	rec = doRequest(t, http.MethodPost, "/lessons/2/favorite", "session-int-2")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, http.MethodPost, "/lessons/2/favorite", "session-int-2")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, http.MethodGet, "/favorites/lessons", "session-int-2")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Lessons, 1)
	assert.Equal(t, 2, resp.Lessons[0].ID)
	assert.NotNil(t, resp.Lessons[0].FavoriteDate)
}

func TestIntegration_EmptyStateAndAnonymous(t *testing.T) {
	requireTestDB(t)
	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	// Fresh user with no activity
	rec := doRequest(t, http.MethodGet, "/favorites/lessons", "session-fresh")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProgressListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Lessons)

	// No session header resolves to the shared anonymous identity
	rec = doRequest(t, http.MethodGet, "/completed/lessons", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int
	err := testDB.QueryRow(`SELECT COUNT(*) FROM users WHERE session_token = ?`, models.AnonymousSessionToken).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIntegration_InvalidLessonID(t *testing.T) {
	requireTestDB(t)
	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	rec := doRequest(t, http.MethodPost, "/lessons/not-a-number/complete", "session-int-3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int
	err := testDB.QueryRow(`SELECT COUNT(*) FROM lesson_completions`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIntegration_TelegramRoutesRequireIdentity(t *testing.T) {
	requireTestDB(t)
	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	// No x-telegram-id header
	rec := doRequest(t, http.MethodGet, "/telegram/completed/lessons", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With the header the user is created on first contact
	req := httptest.NewRequest(http.MethodGet, "/telegram/completed/lessons", nil)
	req.Header.Set("x-telegram-id", "424242")
	rec = httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int
	err := testDB.QueryRow(`SELECT COUNT(*) FROM users WHERE telegram_id = ?`, "424242").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
