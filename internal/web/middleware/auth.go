package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/lulicroppi/malaly-merceria/internal/logging"
)

// BearerToken returns middleware that requires "Authorization: Bearer
// <token>" on every request. An empty token disables the check, matching a
// proxy deployed without BLOB_READ_WRITE_TOKEN.
func BearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearer(r)
			if !ok {
				logging.FromContext(r.Context()).Warn("auth: missing bearer token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="document"`)
				writeAuthError(w, http.StatusUnauthorized, "missing token", "AUTH001")
				return
			}

			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				logging.FromContext(r.Context()).Warn("auth: invalid bearer token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusForbidden, "invalid token", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
