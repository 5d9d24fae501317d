package realtime

import (
	"errors"
	"time"
)

// Close codes for registration rejections.
const (
	CloseInvalidCredential = 4001
	CloseUnauthenticated   = 4003

	closeNormal = 1000
)

// ErrReadTimeout marks an idle read cycle, as opposed to a dead channel.
var ErrReadTimeout = errors.New("read timeout")

// Conn abstracts one bidirectional, ordered, message-framed channel to a
// single client device.
type Conn interface {
	// Send writes one structured frame. A failed send means the channel is
	// no longer usable.
	Send(v any) error
	// Receive blocks for the next inbound frame up to timeout, returning
	// ErrReadTimeout when the channel stayed idle.
	Receive(timeout time.Duration) ([]byte, error)
	// Close tears the channel down with a close code and reason. Safe to
	// call more than once.
	Close(code int, reason string) error
}
