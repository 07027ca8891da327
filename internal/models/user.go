package models

import "time"

// Лимиты количества сохраненных паролей по тарифам.
const (
	MaxPasswordsStandard = 100
	MaxPasswordsPremium  = 1000
)

// User представляет пользователя Telegram Mini App в системе.
// Создается при первой успешной авторизации, обновляется (upsert)
// при каждой последующей.
type User struct {
	ID           int64      `json:"id"`            // внутренний ID (autoincrement)
	TelegramID   int64      `json:"telegram_id"`   // уникальный ID пользователя Telegram
	Username     string     `json:"username"`      // username в Telegram (опционально)
	FirstName    string     `json:"first_name"`    // имя
	LastName     string     `json:"last_name"`     // фамилия (опционально)
	LanguageCode string     `json:"language_code"` // код языка (опционально)
	PhotoURL     string     `json:"photo_url"`     // URL аватара (опционально)
	IsPremium    bool       `json:"is_premium"`    // флаг Telegram Premium
	CreatedAt    time.Time  `json:"created_at"`    // время первой авторизации
	LastLogin    *time.Time `json:"last_login"`    // время последней авторизации
	DeletedAt    *time.Time `json:"-"`             // мягкое удаление аккаунта
}

// MaxPasswords возвращает лимит живых записей для тарифа пользователя.
func (u *User) MaxPasswords() int {
	if u.IsPremium {
		return MaxPasswordsPremium
	}
	return MaxPasswordsStandard
}
