package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cdyhdrxj/store-backend/internal/auth"
	"github.com/cdyhdrxj/store-backend/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is already policed by the CORS middleware and the token
	// check; the upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket upgrades the connection and registers it for purchase
// notifications until the peer goes away. Manager-only (enforced in the
// router).
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := notify.NewWSConn(ws)
	h.registry.Register(conn)
	h.logger.Info("manager connected", zap.String("username", p.Username))

	defer func() {
		h.registry.Unregister(conn)
		_ = conn.Close()
		h.logger.Info("manager disconnected", zap.String("username", p.Username))
	}()

	// Read pump: inbound frames are ignored, but reading is what detects the
	// peer closing the connection.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
