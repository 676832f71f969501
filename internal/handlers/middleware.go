package handlers

import (
	"log/slog"
	"net/http"

	"imagenet-web/internal/config"
)

// HostGuard rejects any request whose Host header is not an exact member of
// the allow-list. It wraps the whole mux so the check runs before any
// handler logic, including multipart parsing.
func HostGuard(allowed config.HostSet, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowed.Contains(r.Host) {
			slog.Warn("Host not allowed, aborting", "host", r.Host, "allowed", allowed.List())
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
