package models

import "time"

// AnonymousSessionToken is the sentinel session token used when a request
// carries no x-session-id header. All such requests share one user row.
const AnonymousSessionToken = "anonymous"

// User represents a user identified by a session token, a Telegram id, or both.
// Each identifier space is unique on its own; the two are never merged
// automatically, linking is handled outside this service.
type User struct {
	ID           int     `json:"id"`
	SessionToken *string `json:"sessionToken,omitempty"`
	TelegramID   *string `json:"telegramId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
