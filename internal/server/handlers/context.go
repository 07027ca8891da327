package handlers

import (
	"context"

	"github.com/razetka2010/telegram-password-manager/internal/models"
	"github.com/razetka2010/telegram-password-manager/internal/server/session"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	userContextKey    contextKey = "user"
)

// ContextWithSession кладет проверенную сессию и пользователя в контекст.
// Вызывается auth middleware после успешного Verify.
func ContextWithSession(ctx context.Context, sess *session.Session, user *models.User) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, sess)
	return context.WithValue(ctx, userContextKey, user)
}

// SessionFromContext достает сессию, положенную auth middleware
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	return sess, ok
}

// UserFromContext достает пользователя, перечитанного из реестра
// при проверке сессии текущего запроса
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
