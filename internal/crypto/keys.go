// Package crypto реализует клиентскую часть конвертного шифрования:
// деривацию ключа из Telegram ID и AES-256-GCM шифрование отдельных записей.
// Сервер этот пакет не использует - ключ никогда не передается и не хранится
// на сервере, поэтому даже полный доступ к базе не раскрывает пароли.
package crypto

import (
	"crypto/sha256"
	"fmt"
	"strconv"

	"golang.org/x/crypto/pbkdf2"
)

// Параметры деривации ключа. Должны совпадать с параметрами веб-клиента
// (Web Crypto API), иначе уже сохраненные записи перестанут расшифровываться.
const (
	// KeyInfo - фиксированный суффикс ключевого материала
	KeyInfo = "telegram-password-manager-secret"
	// KeySalt - фиксированная соль PBKDF2
	KeySalt = "telegram-password-manager-salt"
	// KeyIterations - количество итераций PBKDF2-HMAC-SHA256
	KeyIterations = 100000
	// KeyLen - длина ключа в байтах (AES-256)
	KeyLen = 32
)

// DeriveKey детерминированно выводит 256-битный ключ шифрования из Telegram ID.
// Ключ одинаков при каждом запуске клиента для одного и того же пользователя,
// держится только в памяти и нигде не сохраняется.
// Потеря доступа к Telegram-аккаунту означает необратимую потерю данных -
// это осознанный компромисс схемы.
func DeriveKey(telegramID int64) ([]byte, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram id is required for key derivation")
	}

	material := []byte(strconv.FormatInt(telegramID, 10) + KeyInfo)
	key := pbkdf2.Key(material, []byte(KeySalt), KeyIterations, KeyLen, sha256.New)

	return key, nil
}
