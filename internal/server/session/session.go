// Package session выпускает и проверяет сессионные токены.
//
// Базовый формат токена - base64 от JSON без подписи, поэтому содержимому
// токена самому по себе доверять нельзя: Verify на каждом запросе
// перепроверяет пару (user_id, telegram_id) по реестру живых пользователей.
// При заданном signing secret токены дополнительно подписываются HS256 (JWT) -
// защита в глубину, перепроверку по реестру она не отменяет.
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/razetka2010/telegram-password-manager/internal/models"
	"github.com/razetka2010/telegram-password-manager/internal/server/storage"
)

// Issuer помечает токены, выпущенные этим сервисом
const Issuer = "telegram-password-manager"

// DefaultTTL - срок действия сессии. Продления нет: по истечении
// клиент проходит полную авторизацию через initData заново.
const DefaultTTL = 7 * 24 * time.Hour

// Ошибки проверки токена, классифицированные для HTTP-слоя
var (
	ErrMalformed      = errors.New("session token is malformed")
	ErrExpired        = errors.New("session token expired")
	ErrMissingFields  = errors.New("session token misses required fields")
	ErrUnknownAccount = errors.New("session account unknown")
)

// Session представляет расшифрованное содержимое сессионного токена
type Session struct {
	TelegramID int64  `json:"telegram_id"`
	UserID     int64  `json:"user_id"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
	Iss        string `json:"iss"`
}

// Registry - подмножество реестра пользователей, нужное для перепроверки
type Registry interface {
	LookupSession(ctx context.Context, userID, telegramID int64) (*models.User, error)
}

// Service выпускает и проверяет сессионные токены
type Service struct {
	registry      Registry
	signingSecret []byte
	ttl           time.Duration
	now           func() time.Time
}

// NewService создает сервис сессий. Пустой signingSecret включает базовый
// неподписанный формат; непустой - подписанные JWT (HS256).
func NewService(registry Registry, signingSecret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		registry:      registry,
		signingSecret: signingSecret,
		ttl:           ttl,
		now:           time.Now,
	}
}

// Issue выпускает сессионный токен для авторизованного пользователя
func (s *Service) Issue(telegramID, userID int64) (string, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	if len(s.signingSecret) > 0 {
		claims := signedClaims{
			TelegramID: telegramID,
			UserID:     userID,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
				Issuer:    Issuer,
			},
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString(s.signingSecret)
		if err != nil {
			return "", fmt.Errorf("failed to sign session token: %w", err)
		}
		return signed, nil
	}

	payload := Session{
		TelegramID: telegramID,
		UserID:     userID,
		IssuedAt:   now.Unix(),
		ExpiresAt:  expiresAt.Unix(),
		Iss:        Issuer,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session token: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// Verify проверяет токен и возвращает сессию вместе с живым пользователем
// из реестра. Порядок проверок: формат, срок действия, обязательные поля,
// затем обязательный lookup пары (user_id, telegram_id).
func (s *Service) Verify(ctx context.Context, token string) (*Session, *models.User, error) {
	var sess *Session
	var err error

	if len(s.signingSecret) > 0 {
		sess, err = s.parseSigned(token)
	} else {
		sess, err = s.parseUnsigned(token)
	}
	if err != nil {
		return nil, nil, err
	}

	if sess.UserID == 0 || sess.TelegramID == 0 {
		return nil, nil, ErrMissingFields
	}

	user, err := s.registry.LookupSession(ctx, sess.UserID, sess.TelegramID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil, ErrUnknownAccount
		}
		return nil, nil, fmt.Errorf("failed to verify session against registry: %w", err)
	}

	return sess, user, nil
}

func (s *Service) parseUnsigned(token string) (*Session, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrMalformed
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, ErrMalformed
	}

	if sess.ExpiresAt == 0 || s.now().Unix() > sess.ExpiresAt {
		return nil, ErrExpired
	}

	return &sess, nil
}

// signedClaims - JWT-вариант содержимого токена
type signedClaims struct {
	TelegramID int64 `json:"telegram_id"`
	UserID     int64 `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *Service) parseSigned(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &signedClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingSecret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := parsed.Claims.(*signedClaims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}

	sess := &Session{
		TelegramID: claims.TelegramID,
		UserID:     claims.UserID,
		Iss:        claims.Issuer,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return sess, nil
}
