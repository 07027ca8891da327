package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой. Поле debug заполняется только
// в dev-режиме: наружу не утекают ни стеки, ни внутренние идентификаторы.
func sendError(logger *slog.Logger, w http.ResponseWriter, statusCode int, reason, message string, devMode bool, debug string) {
	resp := api.ErrorResponse{
		Success: false,
		Reason:  reason,
		Message: message,
	}
	if devMode {
		resp.Debug = debug
	}
	sendJSON(logger, w, resp, statusCode)
}
