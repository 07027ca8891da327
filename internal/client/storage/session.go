package storage

import (
	"context"
	"time"
)

// SessionStorage defines interface for storing the session on client side.
// Хранится только сессионный токен и метаданные аккаунта. Мастер-ключ
// шифрования не сохраняется никогда: он выводится заново при каждом запуске.
type SessionStorage interface {
	// SaveSession stores session data, replacing any previous one
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession retrieves the stored session.
	// Returns ErrSessionNotFound if no session exists.
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes the stored session (logout)
	DeleteSession(ctx context.Context) error

	// IsAuthenticated reports whether a non-expired session exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

// SessionData represents client session state
type SessionData struct {
	TelegramID   int64  `json:"telegram_id"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
	MaxPasswords int    `json:"max_passwords"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
}

// Expired reports whether the session lifetime has passed
func (s *SessionData) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}
