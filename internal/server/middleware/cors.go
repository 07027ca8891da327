package middleware

import (
	"log/slog"
	"net/http"
)

// CORSMiddleware отвечает только на запросы с разрешенных origin.
// Запросы с чужим Origin отклоняются до какой-либо бизнес-логики.
// Отсутствующий Origin (same-origin навигация, curl, мониторинг)
// пропускается: браузерной cross-origin угрозы в нем нет.
// В dev-режиме разрешены любые origin.
func CORSMiddleware(logger *slog.Logger, allowedOrigins []string, devMode bool) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				if !devMode && !allowed[origin] {
					logger.Warn("origin not allowed",
						"origin", origin,
						"path", r.URL.Path)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusForbidden)
					_, _ = w.Write([]byte(`{"success":false,"reason":"validation","message":"origin not allowed"}`))
					return
				}

				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Vary", "Origin")
			}

			// Preflight завершается здесь
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
