package realtime

import (
	"net/http"

	"pulperia-be/internal/identity"
	"pulperia-be/internal/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler is the channel-acceptance entry point. It upgrades the request,
// gates registration behind the identity oracle and hands the connection to
// a Session.
type Handler struct {
	registry *Registry
	oracle   identity.Oracle
	upgrader websocket.Upgrader
}

func NewHandler(registry *Registry, oracle identity.Oracle) *Handler {
	return &Handler{
		registry: registry,
		oracle:   oracle,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	credential := identity.ExtractCredential(r)

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.FromCtx(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := NewWSConn(ws)

	// Shape check before the oracle is even consulted. Rejections close the
	// channel with a distinct code and never touch the registry.
	if !identity.ValidCredential(credential) {
		_ = conn.Close(CloseInvalidCredential, "invalid credential")
		return
	}

	user, err := h.oracle.Resolve(r.Context(), credential)
	if err != nil {
		_ = conn.Close(CloseUnauthenticated, "unauthenticated")
		return
	}

	NewSession(h.registry, user.UserID, conn, ReadTimeout).Run(r.Context())
}
