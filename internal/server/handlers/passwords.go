package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/razetka2010/telegram-password-manager/internal/models"
	"github.com/razetka2010/telegram-password-manager/internal/server/storage"
	"github.com/razetka2010/telegram-password-manager/internal/validation"
	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

// PasswordsHandler обрабатывает CRUD запросы к зашифрованным записям.
// Все методы предполагают, что auth middleware уже положил проверенную
// сессию и пользователя в контекст запроса.
type PasswordsHandler struct {
	logger    *slog.Logger
	passwords storage.PasswordStorage
	devMode   bool
}

// NewPasswordsHandler создает новый handler для записей
func NewPasswordsHandler(logger *slog.Logger, passwords storage.PasswordStorage, devMode bool) *PasswordsHandler {
	return &PasswordsHandler{
		logger:    logger,
		passwords: passwords,
		devMode:   devMode,
	}
}

// List обрабатывает GET /api/passwords.
// Возвращает все живые записи пользователя, новые первыми.
func (h *PasswordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		h.unauthenticated(w)
		return
	}

	passwords, err := h.passwords.ListPasswords(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list passwords", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, api.ReasonUnavailable,
			"storage unavailable", h.devMode, err.Error())
		return
	}

	records := make([]api.PasswordRecord, 0, len(passwords))
	for _, p := range passwords {
		records = append(records, api.PasswordRecord{
			ID:          p.ID,
			ServiceName: p.ServiceName,
			Login:       p.Login,
			Ciphertext:  p.Ciphertext,
			Nonce:       p.Nonce,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}

	sendJSON(h.logger, w, api.ListPasswordsResponse{
		Success:   true,
		Passwords: records,
		Count:     len(records),
	}, http.StatusOK)
}

// Create обрабатывает POST /api/passwords.
// Лимит тарифа берется из строки пользователя, перечитанной из реестра
// при проверке сессии этого же запроса: устаревший is_premium из момента
// выпуска токена не дает обойти квоту.
func (h *PasswordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		h.unauthenticated(w)
		return
	}

	var req api.CreatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			"invalid request body", h.devMode, err.Error())
		return
	}

	err := validation.Check(validation.CreatePasswordRules, map[string]string{
		"service_name": req.ServiceName,
		"login":        req.Login,
		"ciphertext":   req.Ciphertext,
		"nonce":        req.Nonce,
	})
	if err != nil {
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			err.Error(), h.devMode, "")
		return
	}

	created, err := h.passwords.CreatePassword(ctx, &models.Password{
		UserID:      user.ID,
		ServiceName: req.ServiceName,
		Login:       req.Login,
		Ciphertext:  req.Ciphertext,
		Nonce:       req.Nonce,
	}, user.MaxPasswords())

	if err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			h.logger.WarnContext(ctx, "password limit reached",
				slog.Int64("user_id", user.ID),
				slog.Int("limit", user.MaxPasswords()))
			sendError(h.logger, w, http.StatusForbidden, api.ReasonQuotaExceeded,
				"password limit reached", h.devMode, "")
			return
		}
		h.logger.ErrorContext(ctx, "failed to create password", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, api.ReasonUnavailable,
			"storage unavailable", h.devMode, err.Error())
		return
	}

	h.logger.InfoContext(ctx, "password created",
		slog.Int64("user_id", user.ID),
		slog.Int64("password_id", created.ID))

	sendJSON(h.logger, w, api.CreatePasswordResponse{
		Success:   true,
		ID:        created.ID,
		CreatedAt: created.CreatedAt,
	}, http.StatusOK)
}

// Update обрабатывает PUT /api/passwords/{id}.
// Чужая или несуществующая запись дает одинаковый ответ not_found.
func (h *PasswordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		h.unauthenticated(w)
		return
	}

	passwordID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req api.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			"invalid request body", h.devMode, err.Error())
		return
	}

	err := validation.Check(validation.UpdatePasswordRules, map[string]string{
		"login":      req.Login,
		"ciphertext": req.Ciphertext,
		"nonce":      req.Nonce,
	})
	if err != nil {
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			err.Error(), h.devMode, "")
		return
	}

	err = h.passwords.UpdatePassword(ctx, user.ID, passwordID, req.Login, req.Ciphertext, req.Nonce)
	if err != nil {
		if errors.Is(err, storage.ErrPasswordNotFound) {
			sendError(h.logger, w, http.StatusNotFound, api.ReasonNotFound,
				"password not found", h.devMode, "")
			return
		}
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, api.ReasonUnavailable,
			"storage unavailable", h.devMode, err.Error())
		return
	}

	sendJSON(h.logger, w, api.UpdatePasswordResponse{Success: true, Updated: true}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/passwords/{id}.
// Повторное удаление сообщает not-found: второго наблюдаемого эффекта нет.
func (h *PasswordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		h.unauthenticated(w)
		return
	}

	passwordID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	err := h.passwords.SoftDeletePassword(ctx, user.ID, passwordID)
	if err != nil {
		if errors.Is(err, storage.ErrPasswordNotFound) {
			sendJSON(h.logger, w, api.DeletePasswordResponse{Success: false, Deleted: false},
				http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete password", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, api.ReasonUnavailable,
			"storage unavailable", h.devMode, err.Error())
		return
	}

	h.logger.InfoContext(ctx, "password soft-deleted",
		slog.Int64("user_id", user.ID),
		slog.Int64("password_id", passwordID))

	sendJSON(h.logger, w, api.DeletePasswordResponse{Success: true, Deleted: true}, http.StatusOK)
}

// pathID извлекает числовой {id} из пути запроса
func (h *PasswordsHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		sendError(h.logger, w, http.StatusBadRequest, api.ReasonValidation,
			"invalid password id", h.devMode, "")
		return 0, false
	}

	return id, true
}

func (h *PasswordsHandler) unauthenticated(w http.ResponseWriter) {
	sendError(h.logger, w, http.StatusUnauthorized, api.ReasonMalformedCredential,
		"authentication required", h.devMode, "")
}
