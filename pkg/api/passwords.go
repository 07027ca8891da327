package api

import "time"

// PasswordRecord представляет одну запись в ответах API.
// Ciphertext и Nonce непрозрачны для сервера: расшифровка возможна
// только на клиенте ключом, производным от Telegram ID.
type PasswordRecord struct {
	ID          int64     `json:"id"`
	ServiceName string    `json:"service_name"`
	Login       string    `json:"login"`
	Ciphertext  string    `json:"ciphertext"`
	Nonce       string    `json:"nonce"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListPasswordsResponse представляет ответ на GET /api/passwords
type ListPasswordsResponse struct {
	Success   bool             `json:"success"`
	Passwords []PasswordRecord `json:"passwords"`
	Count     int              `json:"count"`
}

// CreatePasswordRequest представляет запрос на создание записи
type CreatePasswordRequest struct {
	ServiceName string `json:"service_name"`
	Login       string `json:"login"`
	Ciphertext  string `json:"ciphertext"`
	Nonce       string `json:"nonce"`
}

// CreatePasswordResponse представляет ответ на успешное создание
type CreatePasswordResponse struct {
	Success   bool      `json:"success"`
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdatePasswordRequest представляет запрос на обновление записи
type UpdatePasswordRequest struct {
	Login      string `json:"login"`
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// UpdatePasswordResponse представляет ответ на успешное обновление
type UpdatePasswordResponse struct {
	Success bool `json:"success"`
	Updated bool `json:"updated"`
}

// DeletePasswordResponse представляет ответ на удаление записи.
// Deleted == false означает, что живой записи с таким ID у пользователя нет
// (в том числе при повторном удалении).
type DeletePasswordResponse struct {
	Success bool `json:"success"`
	Deleted bool `json:"deleted"`
}
