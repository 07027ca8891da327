package models

import "time"

// Password представляет одну запись с учетными данными сервиса.
// Поле Ciphertext содержит пароль, зашифрованный на клиенте (AES-GCM),
// сервер никогда не видит plaintext. Nonce хранится отдельно от шифротекста.
// Запись считается "живой", пока DeletedAt == nil.
type Password struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	ServiceName string     `json:"service_name"`
	Login       string     `json:"login"`
	Ciphertext  string     `json:"ciphertext"` // base64, непрозрачен для сервера
	Nonce       string     `json:"nonce"`      // base64, 12 bytes до кодирования
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}
