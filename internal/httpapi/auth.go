package httpapi

import (
	"net/http"
	"strings"
)

// bearerToken extracts the token from the Authorization header. Returns ""
// when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// requireUserKey rejects requests whose bearer token is not in the configured
// key set. Missing and invalid keys both map to 401, matching the original
// user-key behavior.
func requireUserKey(keys map[string]struct{}) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, "Missing API key")
				return
			}
			if _, ok := keys[token]; !ok {
				writeUnauthorized(w, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAdminKey guards management endpoints. Admin keys keep the source's
// asymmetry: missing key maps to 401, a present-but-wrong key to 403.
func requireAdminKey(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, "Missing API key")
				return
			}
			if token != adminKey {
				writeJSONError(w, http.StatusForbidden, "Admin access required", "authorization_error")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
