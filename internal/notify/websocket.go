package notify

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultWriteTimeout bounds a single frame write so a stalled peer surfaces
// as a delivery error instead of blocking a broadcast pass.
const DefaultWriteTimeout = 5 * time.Second

// WSConn adapts a gorilla websocket connection to the registry's Conn
// interface. gorilla connections allow only one concurrent writer, so writes
// are serialized with a mutex.
type WSConn struct {
	mu      sync.Mutex
	ws      *websocket.Conn
	timeout time.Duration
}

func NewWSConn(ws *websocket.Conn) *WSConn {
	return &WSConn{ws: ws, timeout: DefaultWriteTimeout}
}

func (c *WSConn) WriteText(message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.timeout))
	return c.ws.WriteMessage(websocket.TextMessage, []byte(message))
}

func (c *WSConn) Close() error {
	return c.ws.Close()
}
