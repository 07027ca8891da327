package storage

import (
	"context"

	"github.com/razetka2010/telegram-password-manager/internal/models"
)

// PasswordStorage defines interface for encrypted password record persistence.
// Все мутации выражены одним условным SQL-запросом: проверка владельца и
// "живости" записи выполняется в том же statement, что и изменение,
// поэтому отдельных блокировок против TOCTOU не требуется.
type PasswordStorage interface {
	// ListPasswords returns all live records owned by userID,
	// ordered newest-created-first
	ListPasswords(ctx context.Context, userID int64) ([]*models.Password, error)

	// CreatePassword inserts a new record if the live record count for the
	// owner is below limit. Вставка и проверка лимита - один атомарный
	// запрос. Returns ErrQuotaExceeded when the limit is already reached.
	// On success the stored row (with assigned ID and timestamps) is returned.
	CreatePassword(ctx context.Context, password *models.Password, limit int) (*models.Password, error)

	// UpdatePassword updates login, ciphertext and nonce of a live record
	// owned by userID. Returns ErrPasswordNotFound if no live record matches
	// (including records owned by someone else).
	UpdatePassword(ctx context.Context, userID, passwordID int64, login, ciphertext, nonce string) error

	// SoftDeletePassword marks a live record as deleted.
	// Повторное удаление возвращает ErrPasswordNotFound: запись уже не живая.
	SoftDeletePassword(ctx context.Context, userID, passwordID int64) error
}
