package middlewares

import (
	"context"
	"net/http"

	"github.com/lessonhub/backend/internal/models"
	"go.uber.org/zap"
)

// SessionHeader carries the client-generated session token
const SessionHeader = "x-session-id"

// TelegramHeader carries the Telegram identifier on Telegram-authenticated routes
const TelegramHeader = "x-telegram-id"

const userKey contextKey = "user"

// IdentityResolver maps request credentials to a canonical user, creating the
// user on first contact
type IdentityResolver interface {
	// ResolveBySessionToken resolves a user by session token; an empty token
	// resolves to the shared anonymous identity
	//
	// "ctx" is the context for the request.
	// "token" is the session token from the request header.
	//
	// Returns the user and an error if any.
	ResolveBySessionToken(ctx context.Context, token string) (*models.User, error)
	// ResolveByTelegramID resolves a user by Telegram identifier
	//
	// "ctx" is the context for the request.
	// "telegramID" is the Telegram identifier from the request header.
	//
	// Returns the user and an error if any.
	ResolveByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
}

// SessionIdentityMiddleware resolves the caller's identity from the
// x-session-id header and stores the user in the request context. A missing
// header resolves to the shared anonymous identity, so resolution itself
// never produces a 401 on this path.
func SessionIdentityMiddleware(resolver IdentityResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(SessionHeader)

			user, err := resolver.ResolveBySessionToken(r.Context(), token)
			if err != nil {
				logger.Error("failed to resolve session identity",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal server error"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TelegramIdentityMiddleware resolves the caller's identity from the
// x-telegram-id header. Unlike the session path there is no anonymous
// fallback: a missing header is rejected with 401.
func TelegramIdentityMiddleware(resolver IdentityResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			telegramID := r.Header.Get(TelegramHeader)
			if telegramID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"telegram authentication required"}`))
				return
			}

			user, err := resolver.ResolveByTelegramID(r.Context(), telegramID)
			if err != nil {
				logger.Error("failed to resolve telegram identity",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal server error"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the resolved user from context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}
