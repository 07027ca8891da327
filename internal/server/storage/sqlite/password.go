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

// ListPasswords returns all live records owned by userID, newest first
func (s *Storage) ListPasswords(ctx context.Context, userID int64) ([]*models.Password, error) {
	query := `
		SELECT id, user_id, service_name, login, ciphertext, nonce,
		       created_at, updated_at, deleted_at
		FROM passwords
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query passwords: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var passwords []*models.Password
	for rows.Next() {
		password, err := scanPassword(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan password: %w", err)
		}
		passwords = append(passwords, password)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return passwords, nil
}

// CreatePassword inserts a new record unless the owner already holds limit
// live records. Проверка лимита и вставка - один SQL statement, поэтому
// конкурентные create не могут проскочить выше лимита.
func (s *Storage) CreatePassword(ctx context.Context, password *models.Password, limit int) (*models.Password, error) {
	now := time.Now()

	query := `
		INSERT INTO passwords (user_id, service_name, login, ciphertext, nonce, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE (SELECT COUNT(*) FROM passwords WHERE user_id = ? AND deleted_at IS NULL) < ?
		RETURNING id, created_at
	`

	var id, createdAt int64
	err := s.db.QueryRowContext(ctx, query,
		password.UserID,
		password.ServiceName,
		password.Login,
		password.Ciphertext,
		password.Nonce,
		now.Unix(),
		now.Unix(),
		password.UserID,
		limit,
	).Scan(&id, &createdAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrQuotaExceeded
		}
		return nil, fmt.Errorf("failed to insert password: %w", err)
	}

	stored := *password
	stored.ID = id
	stored.CreatedAt = time.Unix(createdAt, 0)
	stored.UpdatedAt = time.Unix(createdAt, 0)

	return &stored, nil
}

// UpdatePassword updates a live record owned by userID.
// Фильтры владельца и deleted_at стоят в том же UPDATE: чужая или удаленная
// запись неотличимы от несуществующей.
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordID int64, login, ciphertext, nonce string) error {
	query := `
		UPDATE passwords
		SET login = ?, ciphertext = ?, nonce = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, login, ciphertext, nonce, time.Now().Unix(), passwordID, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrPasswordNotFound
	}

	return nil
}

// SoftDeletePassword marks a live record as deleted.
// Условие deleted_at IS NULL делает повторное удаление ошибкой not-found,
// а не тихим обновлением метки времени.
func (s *Storage) SoftDeletePassword(ctx context.Context, userID, passwordID int64) error {
	now := time.Now().Unix()

	query := `
		UPDATE passwords
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, now, now, passwordID, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrPasswordNotFound
	}

	return nil
}

func scanPassword(row rowScanner) (*models.Password, error) {
	password := &models.Password{}
	var createdAt, updatedAt int64
	var deletedAt sql.NullInt64

	err := row.Scan(
		&password.ID,
		&password.UserID,
		&password.ServiceName,
		&password.Login,
		&password.Ciphertext,
		&password.Nonce,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	password.CreatedAt = time.Unix(createdAt, 0)
	password.UpdatedAt = time.Unix(updatedAt, 0)
	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0)
		password.DeletedAt = &t
	}

	return password, nil
}
