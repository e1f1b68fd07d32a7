package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Hub keeps the live connections of this process.
type Hub struct {
	conns sync.Map // sessionID -> *clientConn
	count atomic.Int64
}

func NewHub() *Hub { return &Hub{} }

func (h *Hub) Join(sessionID string, c *clientConn) {
	if _, loaded := h.conns.LoadOrStore(sessionID, c); !loaded {
		h.count.Add(1)
	}
}

func (h *Hub) Leave(sessionID string) {
	if _, loaded := h.conns.LoadAndDelete(sessionID); loaded {
		h.count.Add(-1)
	}
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int { return int(h.count.Load()) }

// CloseAll sends a going-away close frame to every connection.
func (h *Hub) CloseAll() {
	h.conns.Range(func(_, v any) bool {
		c := v.(*clientConn)
		_ = c.rawConn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(writeWait))
		_ = c.rawConn.Close()
		return true
	})
}
