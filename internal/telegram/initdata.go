// Package telegram проверяет подлинность initData, которую Telegram Mini App
// передает при запуске. Схема проверки описана в документации Telegram WebApp:
// промежуточный ключ = HMAC-SHA256(bot_token, key="WebAppData"), ожидаемый хеш =
// hex(HMAC-SHA256(data_check_string, key=промежуточный ключ)).
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxAge - максимальный возраст initData по умолчанию (1 день).
// Более старые данные отклоняются даже с валидной подписью: это признак
// повторного использования перехваченной строки.
const DefaultMaxAge = 24 * time.Hour

// UserData представляет пользователя, извлеченного из поля user в initData
type UserData struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
	IsPremium    bool   `json:"is_premium"`
}

// Validate проверяет подпись initData против токена бота.
// Любая ошибка разбора или отсутствие hash дает false, паники невозможны.
// Сравнение хешей выполняется за константное время.
func Validate(initData, botToken string) bool {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}

	suppliedHash := values.Get("hash")
	if suppliedHash == "" {
		return false
	}
	values.Del("hash")

	// Собираем data_check_string: поля сортируются по имени ключа
	// и соединяются строками "key=value" через \n. Поле hash исключено.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(pairs, "\n")

	secretKey := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	expected := hex.EncodeToString(hmacSHA256(secretKey, []byte(dataCheckString)))

	return hmac.Equal([]byte(expected), []byte(suppliedHash))
}

// IsFresh проверяет, что auth_date в initData не старше maxAge.
// При maxAge <= 0 используется DefaultMaxAge.
func IsFresh(initData string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return false
	}

	return time.Since(time.Unix(authDate, 0)) <= maxAge
}

// User извлекает данные пользователя из поля user в initData.
// Возвращает nil, если поле отсутствует, не разбирается или не содержит
// обязательных id и first_name.
func User(initData string) *UserData {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil
	}

	raw := values.Get("user")
	if raw == "" {
		return nil
	}

	var user UserData
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}

	if user.ID == 0 || user.FirstName == "" {
		return nil
	}

	return &user
}

// hmacSHA256 вычисляет HMAC-SHA256 от message с ключом key
func hmacSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}
