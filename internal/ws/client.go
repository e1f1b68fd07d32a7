package ws

import (
	"encoding/json"
	"sync"
	"time"

	"debatematch/internal/debate"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendQueueSize = 256

// clientConn funnels every outbound frame through one queue so that the
// write pump is the connection's only data writer.
type clientConn struct {
	rawConn *websocket.Conn
	send    chan []byte

	mu     sync.Mutex
	closed bool
}

func newClientConn() *clientConn {
	return &clientConn{send: make(chan []byte, sendQueueSize)}
}

// Notify implements debate.Notifier. A full queue means the peer stopped
// reading; the queue is closed, which makes the write pump drop the socket.
func (c *clientConn) Notify(ev debate.Event) bool {
	return c.writeJSON(outEnvelope{Event: ev.Name, Body: ev.Body})
}

func (c *clientConn) writeJSON(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("ws.marshal", zap.Error(err))
		return false
	}
	return c.write(data)
}

func (c *clientConn) write(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		zap.L().Warn("ws.send_queue_full")
		c.closed = true
		close(c.send)
		return false
	}
}

// close stops accepting frames; the write pump drains what is queued.
func (c *clientConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *clientConn) writePump() {
	defer c.rawConn.Close()
	for data := range c.send {
		_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.rawConn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.rawConn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
