package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gramkosh/gramkosh/internal/policy"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// principalHolderKey is the context key for the slot Logging plants so
// that RequireAuth, which runs deeper in the chain, can report the
// authenticated principal back out.
const principalHolderKey contextKey = "principal_holder"

type principalHolder struct {
	principal *policy.Principal
}

// Logging logs every request: method, path, status, principal, and
// duration. Client errors log at warn, server errors at error.
//
// The principal slot is filled by RequireAuth on authenticated routes;
// public routes log an empty user_id.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		holder := &principalHolder{}
		r = r.WithContext(context.WithValue(r.Context(), principalHolderKey, holder))

		next.ServeHTTP(rec, r)

		userID := ""
		if holder.principal != nil {
			userID = holder.principal.ID
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"user_id", userID,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case rec.status >= 500:
			slog.Error("Request failed", attrs...)
		case rec.status >= 400:
			slog.Warn("Request rejected", attrs...)
		default:
			slog.Info("Request ok", attrs...)
		}
	})
}
