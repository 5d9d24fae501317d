package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"pulperia-be/internal/logger"

	"go.uber.org/zap"
)

// ReadTimeout is the idle interval after which the session probes the
// client. A channel stays alive as long as probes keep succeeding, so
// staleness is bounded to one interval after the last exchange.
const ReadTimeout = 60 * time.Second

type frame struct {
	Type string `json:"type"`
}

type connectedFrame struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// Session services one registered channel: greeting, receive loop, keepalive
// probes, and teardown. Teardown happens exactly once no matter which path
// triggers it.
type Session struct {
	registry *Registry
	userID   string
	conn     Conn
	timeout  time.Duration
	once     sync.Once
}

func NewSession(registry *Registry, userID string, conn Conn, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = ReadTimeout
	}
	return &Session{registry: registry, userID: userID, conn: conn, timeout: timeout}
}

// Run registers the connection and blocks until the channel dies.
func (s *Session) Run(ctx context.Context) {
	log := logger.FromCtx(ctx).With(zap.String("user_id", s.userID))

	s.registry.Register(s.userID, s.conn)
	log.Info("channel connected")

	if err := s.conn.Send(connectedFrame{Type: "connected", UserID: s.userID}); err != nil {
		s.Teardown("greeting failed")
		return
	}

	for {
		data, err := s.conn.Receive(s.timeout)
		switch {
		case errors.Is(err, ErrReadTimeout):
			if err := s.conn.Send(frame{Type: "ping"}); err != nil {
				log.Info("keepalive probe failed, closing channel", zap.Error(err))
				s.Teardown("probe failed")
				return
			}
		case err != nil:
			log.Info("channel closed", zap.Error(err))
			s.Teardown("receive failed")
			return
		default:
			var f frame
			if json.Unmarshal(data, &f) != nil {
				// Unparseable inbound frames are ignored for forward
				// compatibility, same as unknown types.
				continue
			}
			if f.Type == "ping" {
				if err := s.conn.Send(frame{Type: "pong"}); err != nil {
					s.Teardown("pong failed")
					return
				}
			}
		}
	}
}

// Teardown deregisters and closes the channel. Subsequent calls are no-ops,
// so an eviction racing an explicit close cannot double-deregister.
func (s *Session) Teardown(reason string) {
	s.once.Do(func() {
		s.registry.Deregister(s.userID, s.conn)
		_ = s.conn.Close(closeNormal, reason)
	})
}
