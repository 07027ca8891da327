package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// NonceSize - размер nonce для AES-GCM (12 bytes, стандартный размер)
const NonceSize = 12

// ErrDecryptionFailed возвращается при несовпадении authentication tag.
// Возможные причины: запись подделана, ключ выведен из другого Telegram ID
// или шифротекст поврежден при хранении. Клиент должен показать состояние
// "не удалось расшифровать", а не падать.
var ErrDecryptionFailed = errors.New("decryption failed: invalid key or corrupted data")

// Encrypt шифрует plaintext с использованием AES-256-GCM.
// Для каждого вызова генерируется свежий случайный nonce: повторное
// использование nonce с одним ключом ломает конфиденциальность GCM.
// Шифротекст (с authentication tag) и nonce возвращаются отдельными
// base64-строками - в таком виде они хранятся на сервере.
func Encrypt(plaintext, key []byte) (ciphertext, nonce string, err error) {
	if len(plaintext) == 0 {
		return "", "", fmt.Errorf("plaintext cannot be empty")
	}
	if len(key) != KeyLen {
		return "", "", fmt.Errorf("encryption key must be %d bytes, got %d", KeyLen, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceBytes := make([]byte, NonceSize)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// GCM добавляет authentication tag в конец шифротекста
	encrypted := aesGCM.Seal(nil, nonceBytes, plaintext, nil)

	return base64.StdEncoding.EncodeToString(encrypted),
		base64.StdEncoding.EncodeToString(nonceBytes),
		nil
}

// Decrypt расшифровывает данные, зашифрованные Encrypt.
// Несовпадение authentication tag возвращается как ErrDecryptionFailed,
// ошибки декодирования base64 - как обычные ошибки формата.
func Decrypt(ciphertext, nonce string, key []byte) ([]byte, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeyLen, len(key))
	}

	encrypted, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	nonceBytes, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	if len(nonceBytes) != NonceSize {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonceBytes))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := aesGCM.Open(nil, nonceBytes, encrypted, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
