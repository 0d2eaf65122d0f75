package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lessonhub/backend/internal/models"
	"github.com/lessonhub/backend/internal/repositories"
	"go.uber.org/zap"
)

// UserRepository defines methods for user data access
type UserRepository interface {
	// GetBySessionToken retrieves a user by session token
	//
	// "ctx" is the context for the request.
	// "token" is the session token of the user.
	//
	// Returns the user and an error if any. Returns
	// repositories.ErrUserNotFound when no user matches the token.
	GetBySessionToken(ctx context.Context, token string) (*models.User, error)
	// GetByTelegramID retrieves a user by Telegram identifier
	//
	// "ctx" is the context for the request.
	// "telegramID" is the Telegram identifier of the user.
	//
	// Returns the user and an error if any. Returns
	// repositories.ErrUserNotFound when no user matches the identifier.
	GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
	// CreateWithSessionToken creates a new user keyed by a session token
	//
	// "ctx" is the context for the request.
	// "token" is the session token of the user.
	//
	// Returns the created user and an error if any. Returns
	// repositories.ErrDuplicateEntry when a concurrent insert won the race.
	CreateWithSessionToken(ctx context.Context, token string) (*models.User, error)
	// CreateWithTelegramID creates a new user keyed by a Telegram identifier
	//
	// "ctx" is the context for the request.
	// "telegramID" is the Telegram identifier of the user.
	//
	// Returns the created user and an error if any. Returns
	// repositories.ErrDuplicateEntry when a concurrent insert won the race.
	CreateWithTelegramID(ctx context.Context, telegramID string) (*models.User, error)
}

type identityService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(userRepo UserRepository, logger *zap.Logger) *identityService {
	return &identityService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ResolveBySessionToken maps a session token to its canonical user, creating
// the user on first contact. An empty token resolves to the shared anonymous
// identity. The operation never fails with "user not found".
func (s *identityService) ResolveBySessionToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		token = models.AnonymousSessionToken
	}

	return s.findOrCreate(ctx, token,
		s.userRepo.GetBySessionToken,
		s.userRepo.CreateWithSessionToken,
	)
}

// ResolveByTelegramID maps a Telegram identifier to its canonical user,
// creating the user on first contact. Unlike session resolution there is no
// anonymous fallback: an empty identifier is rejected.
func (s *identityService) ResolveByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	if telegramID == "" {
		return nil, ErrInvalidIdentity
	}

	return s.findOrCreate(ctx, telegramID,
		s.userRepo.GetByTelegramID,
		s.userRepo.CreateWithTelegramID,
	)
}

// findOrCreate looks up a user by key and creates one if absent. Two first
// requests with the same new key can race on the insert; the loser hits the
// unique constraint and re-fetches the winning row instead of failing.
func (s *identityService) findOrCreate(
	ctx context.Context,
	key string,
	get func(ctx context.Context, key string) (*models.User, error),
	create func(ctx context.Context, key string) (*models.User, error),
) (*models.User, error) {
	user, err := get(ctx, key)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	user, err = create(ctx, key)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrDuplicateEntry) {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("lost user creation race, re-fetching")

	user, err = get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch user after creation race: %w", err)
	}

	return user, nil
}
