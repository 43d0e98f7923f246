package handlers

import (
	"log/slog"
	"net/http"
)

// MiddlewareRateLimit rejects mutations once the shared token bucket is empty.
func (h *Handler) MiddlewareRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow() {
			slog.Warn("mutation rate limited", slog.String("method", r.Method), slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, &errorResponse{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
