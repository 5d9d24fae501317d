package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pulperia-be/internal/identity"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOracle struct {
	users map[string]*identity.User
}

func (o *stubOracle) Resolve(_ context.Context, credential string) (*identity.User, error) {
	if u, ok := o.users[credential]; ok {
		return u, nil
	}
	return nil, identity.ErrUnauthenticated
}

func dialWS(t *testing.T, server *httptest.Server, token string) (*websocket.Conn, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/orders?token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	return ws, err
}

func readClose(t *testing.T, ws *websocket.Conn) int {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok, "expected a close frame, got %v", err)
	return closeErr.Code
}

func TestHandlerHandshake(t *testing.T) {
	registry := NewRegistry()
	oracle := &stubOracle{users: map[string]*identity.User{
		"token-ana": {UserID: "user_ana", Name: "Ana", UserType: identity.RoleCustomer},
	}}
	server := httptest.NewServer(NewHandler(registry, oracle))
	defer server.Close()

	t.Run("malformed credential closes with 4001", func(t *testing.T) {
		ws, err := dialWS(t, server, "abc")
		require.NoError(t, err)
		defer ws.Close()

		assert.Equal(t, CloseInvalidCredential, readClose(t, ws))
		assert.False(t, registry.IsOnline("user_ana"))
	})

	t.Run("unknown credential closes with 4003", func(t *testing.T) {
		ws, err := dialWS(t, server, "token-nobody")
		require.NoError(t, err)
		defer ws.Close()

		assert.Equal(t, CloseUnauthenticated, readClose(t, ws))
	})

	t.Run("valid credential greets and registers", func(t *testing.T) {
		ws, err := dialWS(t, server, "token-ana")
		require.NoError(t, err)

		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)

		var greeting connectedFrame
		require.NoError(t, json.Unmarshal(data, &greeting))
		assert.Equal(t, "connected", greeting.Type)
		assert.Equal(t, "user_ana", greeting.UserID)
		assert.True(t, registry.IsOnline("user_ana"))

		ws.Close()
		require.Eventually(t, func() bool {
			return !registry.IsOnline("user_ana")
		}, 2*time.Second, 10*time.Millisecond, "deregistered after disconnect")
	})

	t.Run("delivery reaches a live channel", func(t *testing.T) {
		ws, err := dialWS(t, server, "token-ana")
		require.NoError(t, err)
		defer ws.Close()

		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = ws.ReadMessage() // greeting
		require.NoError(t, err)

		registry.Send("user_ana", map[string]string{"type": "order_update"})

		_, data, err := ws.ReadMessage()
		require.NoError(t, err)
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		assert.Equal(t, "order_update", f.Type)
	})
}
