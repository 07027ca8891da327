package api

// Машиночитаемые коды причин отказа. Стабильная часть контракта:
// клиент ориентируется на Reason, а не на текст Message.
const (
	ReasonInvalidAssertion    = "invalid_assertion"    // подпись initData не сошлась
	ReasonStaleAssertion      = "stale_assertion"      // initData старше допустимого окна
	ReasonMalformedCredential = "malformed_credential" // session token не декодируется
	ReasonExpiredCredential   = "expired_credential"   // срок действия session token истек
	ReasonUnknownAccount      = "unknown_account"      // пара (user_id, telegram_id) не найдена
	ReasonQuotaExceeded       = "quota_exceeded"       // достигнут лимит записей тарифа
	ReasonNotFound            = "not_found"            // запись не существует или принадлежит другому
	ReasonValidation          = "validation"           // не прошла валидация полей запроса
	ReasonUnavailable         = "unavailable"          // хранилище недоступно
)

// AuthRequest представляет запрос на авторизацию через Telegram initData
type AuthRequest struct {
	InitData string `json:"initData"` // сырая строка initData от Telegram WebApp
}

// AuthUser представляет данные пользователя в ответе авторизации
type AuthUser struct {
	ID           int64  `json:"id"`            // внутренний ID пользователя
	TelegramID   int64  `json:"telegram_id"`   // ID пользователя Telegram
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	IsPremium    bool   `json:"is_premium"`
}

// Permissions описывает, что разрешено пользователю в текущей сессии
type Permissions struct {
	CanAdd       bool `json:"can_add"`
	CanDelete    bool `json:"can_delete"`
	MaxPasswords int  `json:"max_passwords"` // лимит живых записей (100 / 1000 premium)
}

// AuthResponse представляет ответ на успешную авторизацию
type AuthResponse struct {
	Success      bool        `json:"success"`
	User         AuthUser    `json:"user"`
	SessionToken string      `json:"session_token"` // bearer token для последующих запросов
	Permissions  Permissions `json:"permissions"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`         // всегда false
	Reason  string `json:"reason"`          // машиночитаемый код (Reason* константы)
	Message string `json:"message"`         // человекочитаемое описание
	Debug   string `json:"debug,omitempty"` // детали, только в dev-режиме
}
