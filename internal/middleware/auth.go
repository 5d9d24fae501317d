package middleware

import (
	"net/http"

	"pulperia-be/internal/identity"
)

// AuthMiddleware resolves the request credential through the identity oracle
// and attaches the user to the context. Unauthenticated requests pass
// through; handlers that need an identity reject them themselves.
func AuthMiddleware(oracle identity.Oracle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := identity.ExtractCredential(r)
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := oracle.Resolve(r.Context(), credential)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}
