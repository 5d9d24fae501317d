package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCredential(t *testing.T) {
	t.Run("cookie wins over header and query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders?token=from-query", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "from-cookie"})
		req.Header.Set("Authorization", "Bearer from-header")

		assert.Equal(t, "from-cookie", ExtractCredential(req))
	})

	t.Run("bearer header wins over query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders?token=from-query", nil)
		req.Header.Set("Authorization", "Bearer from-header")

		assert.Equal(t, "from-header", ExtractCredential(req))
	})

	t.Run("query parameter as last resort", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws/orders?token=from-query", nil)

		assert.Equal(t, "from-query", ExtractCredential(req))
	})

	t.Run("non-bearer authorization is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		assert.Equal(t, "", ExtractCredential(req))
	})

	t.Run("empty cookie falls through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: ""})
		req.Header.Set("Authorization", "Bearer from-header")

		assert.Equal(t, "from-header", ExtractCredential(req))
	})
}
