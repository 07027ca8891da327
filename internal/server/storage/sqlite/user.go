package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/razetka2010/telegram-password-manager/internal/models"
	"github.com/razetka2010/telegram-password-manager/internal/server/storage"
)

// UpsertUser creates a user on first authentication or refreshes the profile
// and last_login on subsequent ones. Конфликт определяется по telegram_id,
// created_at при обновлении не трогается.
func (s *Storage) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()

	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name,
		                   language_code, photo_url, is_premium, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			language_code = excluded.language_code,
			photo_url = excluded.photo_url,
			is_premium = excluded.is_premium,
			last_login = excluded.last_login
		RETURNING id, telegram_id, username, first_name, last_name,
		          language_code, photo_url, is_premium, created_at, last_login, deleted_at
	`

	row := s.db.QueryRowContext(ctx, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.PhotoURL,
		boolToInt(user.IsPremium),
		now.Unix(),
		now.Unix(),
	)

	stored, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return stored, nil
}

// GetUserByID retrieves a live user by internal ID
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT id, telegram_id, username, first_name, last_name,
		       language_code, photo_url, is_premium, created_at, last_login, deleted_at
		FROM users
		WHERE id = ? AND deleted_at IS NULL
	`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// LookupSession retrieves a live user by the (userID, telegramID) pair.
// Оба значения должны совпасть: именно эта проверка является якорем доверия
// для неподписанного session token.
func (s *Storage) LookupSession(ctx context.Context, userID, telegramID int64) (*models.User, error) {
	query := `
		SELECT id, telegram_id, username, first_name, last_name,
		       language_code, photo_url, is_premium, created_at, last_login, deleted_at
		FROM users
		WHERE id = ? AND telegram_id = ? AND deleted_at IS NULL
	`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, userID, telegramID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up session user: %w", err)
	}

	return user, nil
}

// LogAuth records a successful authentication in the audit trail
func (s *Storage) LogAuth(ctx context.Context, userID int64, ipAddress, userAgent string) error {
	query := `
		INSERT INTO auth_logs (user_id, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, userID, ipAddress, userAgent, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to insert auth log: %w", err)
	}

	return nil
}

// rowScanner покрывает и *sql.Row, и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var isPremium int
	var createdAt int64
	var lastLogin, deletedAt sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.LanguageCode,
		&user.PhotoURL,
		&isPremium,
		&createdAt,
		&lastLogin,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	user.IsPremium = isPremium != 0
	user.CreatedAt = time.Unix(createdAt, 0)
	if lastLogin.Valid {
		t := time.Unix(lastLogin.Int64, 0)
		user.LastLogin = &t
	}
	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0)
		user.DeletedAt = &t
	}

	return user, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
