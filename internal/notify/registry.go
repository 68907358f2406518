// Package notify owns the set of live manager connections and delivers
// purchase notifications to all of them.
package notify

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Conn is one live, message-oriented connection. The registry only needs to
// push text frames and close dead peers, so the transport stays pluggable and
// the registry testable without a socket.
type Conn interface {
	WriteText(message string) error
	Close() error
}

// PurchaseEvent is the wire payload pushed to managers when a purchase
// commits. Exactly these three fields, no more.
type PurchaseEvent struct {
	Username string `json:"username"`
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
}

// Registry tracks live connections and broadcasts to them. All methods are
// safe for concurrent use. A broadcast iterates over a snapshot of the
// membership taken under the lock, so concurrent register/unregister cannot
// corrupt an in-flight pass; a handle that fails delivery is pruned and
// closed without blocking delivery to the rest.
type Registry struct {
	mu     sync.Mutex
	conns  map[Conn]struct{}
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		conns:  make(map[Conn]struct{}),
		logger: logger,
	}
}

// Register adds an activated connection to the membership set. The
// transport-level handshake (e.g. the WebSocket upgrade) is the caller's
// responsibility; a handle only reaches the registry once it is live.
func (r *Registry) Register(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c] = struct{}{}
}

// Unregister removes the connection if present. Removing an absent handle is
// a no-op, so disconnect paths can call it unconditionally.
func (r *Registry) Unregister(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, c)
}

// Len reports the current number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Send delivers the message to exactly one handle. Delivery failure is
// reported to the caller; membership is not touched.
func (r *Registry) Send(c Conn, message string) error {
	return c.WriteText(message)
}

// Broadcast delivers the message to every registered connection. A handle
// that fails delivery is unregistered and closed after the pass; one dead
// peer never prevents delivery to the remaining ones.
func (r *Registry) Broadcast(message string) {
	r.mu.Lock()
	snapshot := make([]Conn, 0, len(r.conns))
	for c := range r.conns {
		snapshot = append(snapshot, c)
	}
	r.mu.Unlock()

	var dead []Conn
	for _, c := range snapshot {
		if err := c.WriteText(message); err != nil {
			r.logger.Warn("dropping dead notification connection", zap.Error(err))
			dead = append(dead, c)
		}
	}

	if len(dead) == 0 {
		return
	}

	r.mu.Lock()
	for _, c := range dead {
		delete(r.conns, c)
	}
	r.mu.Unlock()

	for _, c := range dead {
		_ = c.Close()
	}
}

// NotifyPurchase serializes the purchase event and broadcasts it to every
// connected manager.
func (r *Registry) NotifyPurchase(username, item string, quantity int64) {
	body, err := json.Marshal(PurchaseEvent{
		Username: username,
		Item:     item,
		Quantity: quantity,
	})
	if err != nil {
		r.logger.Error("marshal purchase notification", zap.Error(err))
		return
	}
	r.Broadcast(string(body))
}
