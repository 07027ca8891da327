package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/razetka2010/telegram-password-manager/internal/models"
	"github.com/razetka2010/telegram-password-manager/internal/server/handlers"
	"github.com/razetka2010/telegram-password-manager/internal/server/session"
	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

// SessionVerifier проверяет сессионный токен и возвращает живого пользователя
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*session.Session, *models.User, error)
}

// AuthMiddleware создает middleware для проверки сессионного токена.
// Токен перепроверяется по реестру на каждом запросе - сам по себе
// он не является доказательством личности.
func AuthMiddleware(logger *slog.Logger, verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Warn("missing or malformed Authorization header")
				writeAuthError(w, api.ReasonMalformedCredential, "missing bearer token")
				return
			}

			sess, user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				reason := classifyAuthError(err)
				logger.Warn("session verification failed",
					"reason", reason,
					"error", err)

				if reason == api.ReasonUnavailable {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"success":false,"reason":"unavailable","message":"storage unavailable"}`))
					return
				}
				writeAuthError(w, reason, "invalid or expired token")
				return
			}

			logger.Debug("session verified",
				"user_id", sess.UserID,
				"telegram_id", sess.TelegramID)

			ctx := handlers.ContextWithSession(r.Context(), sess, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из заголовка Authorization ("Bearer <token>")
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func classifyAuthError(err error) string {
	switch {
	case errors.Is(err, session.ErrExpired):
		return api.ReasonExpiredCredential
	case errors.Is(err, session.ErrMalformed), errors.Is(err, session.ErrMissingFields):
		return api.ReasonMalformedCredential
	case errors.Is(err, session.ErrUnknownAccount):
		return api.ReasonUnknownAccount
	default:
		return api.ReasonUnavailable
	}
}

func writeAuthError(w http.ResponseWriter, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"reason":"` + reason + `","message":"` + message + `"}`))
}
