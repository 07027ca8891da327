package storage

import (
	"context"

	"github.com/razetka2010/telegram-password-manager/internal/models"
)

// UserStorage defines interface for user registry persistence
type UserStorage interface {
	// UpsertUser creates the user on first authentication or refreshes the
	// profile fields and last_login on every subsequent one.
	// Returns the full stored row including the assigned ID.
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByID retrieves a live user by internal ID
	// Returns ErrUserNotFound if user doesn't exist or is soft-deleted
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// LookupSession retrieves a live user by the (userID, telegramID) pair.
	// Это обязательная перепроверка session token на каждом запросе:
	// сам токен не несет криптографической защиты целостности.
	// Returns ErrUserNotFound if no live match exists.
	LookupSession(ctx context.Context, userID, telegramID int64) (*models.User, error)
}

// AuthLogStorage defines interface for the authentication audit trail
type AuthLogStorage interface {
	// LogAuth records a successful authentication.
	// Ошибка записи лога не должна прерывать процесс авторизации.
	LogAuth(ctx context.Context, userID int64, ipAddress, userAgent string) error
}
