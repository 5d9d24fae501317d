package httpx

import (
	"encoding/json"
	"net/http"

	"pulperia-be/internal/identity"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// requireUser writes a 401 and returns false when the request carries no
// resolved identity.
func requireUser(w http.ResponseWriter, r *http.Request) (*identity.User, bool) {
	user, ok := identity.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no autenticado")
		return nil, false
	}
	return user, true
}
