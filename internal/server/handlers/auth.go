package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/razetka2010/telegram-password-manager/internal/models"
	"github.com/razetka2010/telegram-password-manager/internal/server/session"
	"github.com/razetka2010/telegram-password-manager/internal/server/storage"
	"github.com/razetka2010/telegram-password-manager/internal/telegram"
	"github.com/razetka2010/telegram-password-manager/internal/validation"
	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

// AuthConfig содержит настройки авторизации через Telegram
type AuthConfig struct {
	BotToken       string
	MaxInitDataAge time.Duration
	DevMode        bool

	// InsecureSkipValidation отключает проверку подписи initData.
	// Явный режим для локальной отладки без реального бота.
	// Никогда не включается по умолчанию, при старте пишется в лог.
	InsecureSkipValidation bool
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger   *slog.Logger
	users    storage.UserStorage
	authLogs storage.AuthLogStorage
	sessions *session.Service
	cfg      AuthConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, authLogs storage.AuthLogStorage, sessions *session.Service, cfg AuthConfig) *AuthHandler {
	if cfg.MaxInitDataAge <= 0 {
		cfg.MaxInitDataAge = telegram.DefaultMaxAge
	}
	return &AuthHandler{
		logger:   logger,
		users:    users,
		authLogs: authLogs,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Authenticate обрабатывает POST /api/auth.
// Порядок проверок фиксирован: подпись initData, свежесть, извлечение
// пользователя. Только после всех трех - upsert в реестр и выпуск токена.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode auth request", slog.Any("error", err))
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			"invalid request body", h.cfg.DevMode, err.Error())
		return
	}

	if err := validation.Check(validation.AuthRules, map[string]string{"initData": req.InitData}); err != nil {
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			err.Error(), h.cfg.DevMode, "")
		return
	}

	if h.cfg.InsecureSkipValidation {
		h.logger.WarnContext(ctx, "initData signature check SKIPPED (insecure mode)")
	} else if !telegram.Validate(req.InitData, h.cfg.BotToken) {
		h.logger.WarnContext(ctx, "invalid telegram signature", slog.String("remote_addr", r.RemoteAddr))
		sendError(h.logger, w, http.StatusUnauthorized, api.ReasonInvalidAssertion,
			"invalid Telegram signature", h.cfg.DevMode, "signature check failed")
		return
	}

	if !telegram.IsFresh(req.InitData, h.cfg.MaxInitDataAge) {
		h.logger.WarnContext(ctx, "stale initData", slog.String("remote_addr", r.RemoteAddr))
		sendError(h.logger, w, http.StatusUnauthorized, api.ReasonStaleAssertion,
			"auth data expired", h.cfg.DevMode, "")
		return
	}

	userData := telegram.User(req.InitData)
	if userData == nil {
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			"invalid user data", h.cfg.DevMode, "")
		return
	}

	user, err := h.users.UpsertUser(ctx, &models.User{
		TelegramID:   userData.ID,
		Username:     userData.Username,
		FirstName:    userData.FirstName,
		LastName:     userData.LastName,
		LanguageCode: userData.LanguageCode,
		PhotoURL:     userData.PhotoURL,
		IsPremium:    userData.IsPremium,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upsert user", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, api.ReasonUnavailable,
			"storage unavailable", h.cfg.DevMode, err.Error())
		return
	}

	token, err := h.sessions.Issue(user.TelegramID, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, api.ReasonUnavailable,
			"failed to create session", h.cfg.DevMode, err.Error())
		return
	}

	// Ошибка аудит-лога не прерывает авторизацию
	if err := h.authLogs.LogAuth(ctx, user.ID, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.WarnContext(ctx, "failed to write auth log", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user authenticated",
		slog.Int64("user_id", user.ID),
		slog.Int64("telegram_id", user.TelegramID))

	resp := api.AuthResponse{
		Success: true,
		User: api.AuthUser{
			ID:           user.ID,
			TelegramID:   user.TelegramID,
			Username:     user.Username,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			LanguageCode: user.LanguageCode,
			PhotoURL:     user.PhotoURL,
			IsPremium:    user.IsPremium,
		},
		SessionToken: token,
		Permissions: api.Permissions{
			CanAdd:       true,
			CanDelete:    true,
			MaxPasswords: user.MaxPasswords(),
		},
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
