package identity

import (
	"net/http"
	"strings"
)

// ExtractCredential pulls the caller's credential from a request: session
// cookie first, then bearer header, then the token query parameter used by
// websocket clients.
func ExtractCredential(r *http.Request) string {
	if cookie, err := r.Cookie("session_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return r.URL.Query().Get("token")
}
