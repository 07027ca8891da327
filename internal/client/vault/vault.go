// Package vault выполняет клиентское шифрование паролей.
// Сервер при этом видит только шифртекст и nonce.
package vault

import (
	"fmt"

	"github.com/razetka2010/telegram-password-manager/internal/crypto"
	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

// Vault держит мастер-ключ в памяти процесса.
// Ключ выводится детерминированно из telegram_id и никогда не сохраняется.
type Vault struct {
	key []byte
}

// New выводит мастер-ключ и возвращает готовый Vault
func New(telegramID int64) (*Vault, error) {
	key, err := crypto.DeriveKey(telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive master key: %w", err)
	}
	return &Vault{key: key}, nil
}

// Seal шифрует пароль перед отправкой на сервер
func (v *Vault) Seal(password string) (ciphertext, nonce string, err error) {
	ciphertext, nonce, err = crypto.Encrypt([]byte(password), v.key)
	if err != nil {
		return "", "", fmt.Errorf("failed to encrypt password: %w", err)
	}
	return ciphertext, nonce, nil
}

// Entry представляет расшифрованную запись для отображения
type Entry struct {
	ID          int64
	ServiceName string
	Login       string
	Password    string
	Decryptable bool
}

// Open расшифровывает запись, полученную с сервера.
// Запись, зашифрованную другим ключом, нельзя восстановить:
// она возвращается с Decryptable=false и пустым паролем.
func (v *Vault) Open(record api.PasswordRecord) Entry {
	entry := Entry{
		ID:          record.ID,
		ServiceName: record.ServiceName,
		Login:       record.Login,
	}

	plaintext, err := crypto.Decrypt(record.Ciphertext, record.Nonce, v.key)
	if err != nil {
		return entry
	}

	entry.Password = string(plaintext)
	entry.Decryptable = true
	return entry
}

// OpenAll расшифровывает список записей, сохраняя порядок
func (v *Vault) OpenAll(records []api.PasswordRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, v.Open(record))
	}
	return entries
}
