package realtime

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// wsConn adapts a gorilla websocket connection to Conn. Reads run on a
// dedicated pump goroutine: a gorilla read error is permanent, so the idle
// timeout must come from a timer around the frame channel, never from a read
// deadline on the socket itself. Writes are serialized because the registry
// and the session loop both write to the socket.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn

	frames  chan []byte
	readErr error
	done    chan struct{}
	closing sync.Once
}

func NewWSConn(conn *websocket.Conn) Conn {
	c := &wsConn{
		conn:   conn,
		frames: make(chan []byte, 8),
		done:   make(chan struct{}),
	}
	go c.readPump()
	return c
}

// readPump moves inbound frames onto the channel until the connection dies.
// The terminal error is published before the channel closes, so a receiver
// draining the closed channel always observes it.
func (c *wsConn) readPump() {
	defer close(c.frames)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.readErr = err
			return
		}
		select {
		case c.frames <- data:
		case <-c.done:
			c.readErr = net.ErrClosed
			return
		}
	}
}

func (c *wsConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Receive waits for the next pumped frame. An elapsed timeout reports
// ErrReadTimeout without touching the socket, so the caller can probe and
// wait again while the pump keeps reading.
func (c *wsConn) Receive(timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case data, ok := <-c.frames:
		if !ok {
			return nil, c.readErr
		}
		return data, nil
	case <-timer.C:
		return nil, ErrReadTimeout
	}
}

func (c *wsConn) Close(code int, reason string) error {
	c.closing.Do(func() { close(c.done) })

	c.mu.Lock()
	deadline := time.Now().Add(writeTimeout)
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	c.mu.Unlock()

	return c.conn.Close()
}
