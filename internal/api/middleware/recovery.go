package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"statarb/pkg/utils"
)

// Recovery возвращает middleware, перехватывающий панику в handlers.
//
// Паника в одном запросе не должна ронять весь сервер: логируем
// сообщение со stack trace и отвечаем клиенту 500
func Recovery(logger *utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Паника в HTTP handler",
						zap.Any("panic", err),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
