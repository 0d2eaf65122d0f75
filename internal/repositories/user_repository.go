package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lessonhub/backend/internal/models"
	"go.uber.org/zap"
)

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// GetBySessionToken retrieves a user by session token
func (r *userRepository) GetBySessionToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT id, session_token, telegram_id, created_at
		FROM users
		WHERE session_token = ?
		LIMIT 1
	`

	return r.getByKey(ctx, query, token)
}

// GetByTelegramID retrieves a user by Telegram identifier
func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	query := `
		SELECT id, session_token, telegram_id, created_at
		FROM users
		WHERE telegram_id = ?
		LIMIT 1
	`

	return r.getByKey(ctx, query, telegramID)
}

func (r *userRepository) getByKey(ctx context.Context, query string, key string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&user.ID,
		&user.SessionToken,
		&user.TelegramID,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// CreateWithSessionToken inserts a new user identified by a session token.
// Returns ErrDuplicateEntry if a concurrent insert already claimed the token.
func (r *userRepository) CreateWithSessionToken(ctx context.Context, token string) (*models.User, error) {
	query := `INSERT INTO users (session_token) VALUES (?)`

	return r.create(ctx, query, token)
}

// CreateWithTelegramID inserts a new user identified by a Telegram identifier.
// Returns ErrDuplicateEntry if a concurrent insert already claimed the id.
func (r *userRepository) CreateWithTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	query := `INSERT INTO users (telegram_id) VALUES (?)`

	return r.create(ctx, query, telegramID)
}

func (r *userRepository) create(ctx context.Context, query string, key string) (*models.User, error) {
	result, err := r.db.ExecContext(ctx, query, key)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrDuplicateEntry
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	// Re-read so the caller gets the store-assigned created_at
	query = `
		SELECT id, session_token, telegram_id, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	user := &models.User{}
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.SessionToken,
		&user.TelegramID,
		&user.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to read created user", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to read created user: %w", err)
	}

	return user, nil
}
