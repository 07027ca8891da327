package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncrypt(t *testing.T) {
	validKey := make([]byte, 32)
	_, _ = rand.Read(validKey)

	tests := []struct {
		name      string
		errMsg    string
		plaintext []byte
		key       []byte
		wantErr   bool
	}{
		{
			name:      "successful encryption",
			plaintext: []byte("s3cret-p@ssword"),
			key:       validKey,
			wantErr:   false,
		},
		{
			name:      "long plaintext",
			plaintext: []byte("a very long password with spaces and symbols: !@#$%^&*() и кириллица"),
			key:       validKey,
			wantErr:   false,
		},
		{
			name:      "empty plaintext",
			plaintext: []byte{},
			key:       validKey,
			wantErr:   true,
			errMsg:    "plaintext cannot be empty",
		},
		{
			name:      "invalid key length",
			plaintext: []byte("test"),
			key:       make([]byte, 16),
			wantErr:   true,
			errMsg:    "encryption key must be 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, nonce, err := Encrypt(tt.plaintext, tt.key)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, ciphertext)
			assert.NotEmpty(t, nonce)
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := DeriveKey(111)
	require.NoError(t, err)

	plaintexts := []string{
		"p",
		"simple password",
		"пароль на русском",
		"{\"structured\":\"payload\"}",
	}

	for _, plaintext := range plaintexts {
		ciphertext, nonce, err := Encrypt([]byte(plaintext), key)
		require.NoError(t, err)

		decrypted, err := Decrypt(ciphertext, nonce, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, string(decrypted))
	}
}

// Один и тот же plaintext с одним ключом должен давать разные
// пары (ciphertext, nonce): nonce не может повторяться
func TestEncryptNonceUniqueness(t *testing.T) {
	key, err := DeriveKey(111)
	require.NoError(t, err)

	seenNonces := make(map[string]bool)
	seenCiphertexts := make(map[string]bool)

	for i := 0; i < 100; i++ {
		ciphertext, nonce, err := Encrypt([]byte("same plaintext"), key)
		require.NoError(t, err)

		assert.False(t, seenNonces[nonce], "nonce repeated on iteration %d", i)
		assert.False(t, seenCiphertexts[ciphertext], "ciphertext repeated on iteration %d", i)

		seenNonces[nonce] = true
		seenCiphertexts[ciphertext] = true
	}
}

func TestDecryptErrors(t *testing.T) {
	key, err := DeriveKey(111)
	require.NoError(t, err)

	ciphertext, nonce, err := Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		otherKey, err := DeriveKey(222)
		require.NoError(t, err)

		_, err = Decrypt(ciphertext, nonce, otherKey)
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		// Подменяем шифротекст на валидный base64 другого содержимого
		tampered, _, err := Encrypt([]byte("another secret"), key)
		require.NoError(t, err)

		_, err = Decrypt(tampered, nonce, key)
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})

	t.Run("wrong nonce", func(t *testing.T) {
		_, otherNonce, err := Encrypt([]byte("x"), key)
		require.NoError(t, err)

		_, err = Decrypt(ciphertext, otherNonce, key)
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})

	t.Run("invalid base64 ciphertext", func(t *testing.T) {
		_, err := Decrypt("%%%not-base64%%%", nonce, key)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDecryptionFailed)
	})

	t.Run("invalid key length", func(t *testing.T) {
		_, err := Decrypt(ciphertext, nonce, make([]byte, 10))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "encryption key must be 32 bytes")
	})
}

func TestDeriveKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		key1, err := DeriveKey(111)
		require.NoError(t, err)
		key2, err := DeriveKey(111)
		require.NoError(t, err)

		assert.Equal(t, key1, key2)
		assert.Len(t, key1, KeyLen)
	})

	t.Run("different users get different keys", func(t *testing.T) {
		key1, err := DeriveKey(111)
		require.NoError(t, err)
		key2, err := DeriveKey(112)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero telegram id", func(t *testing.T) {
		_, err := DeriveKey(0)
		assert.Error(t, err)
	})
}
