package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	heartbeatInterval = 41250 * time.Millisecond
	heartbeatTimeout  = 10 * time.Second
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	maxMessageSize    = 4096
	sendBufferSize    = 256
)

// Connection is a single WebSocket client connection. UserID and SessionID
// are zero until the client identifies.
type Connection struct {
	UserID    int64
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	manager  *Manager
	sequence atomic.Int64
	lastBeat atomic.Int64 // unix millis of the last client heartbeat

	closeOnce sync.Once
	done      chan struct{}
}

func newConnection(conn *websocket.Conn, manager *Manager) *Connection {
	c := &Connection{
		Conn:    conn,
		Send:    make(chan []byte, sendBufferSize),
		manager: manager,
		done:    make(chan struct{}),
	}
	c.lastBeat.Store(time.Now().UnixMilli())
	return c
}

// NextSequence increments and returns the next sequence number.
func (c *Connection) NextSequence() int64 {
	return c.sequence.Add(1)
}

// SendPayload marshals and queues a payload to be sent.
func (c *Connection) SendPayload(p Payload) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Error("marshal error", "userID", c.UserID, "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		slog.Warn("send buffer full, dropping message", "userID", c.UserID)
	}
}

// SendEvent sends a dispatch event with a sequence number.
func (c *Connection) SendEvent(name string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal event error", "event", name, "error", err)
		return
	}
	seq := c.NextSequence()
	c.SendPayload(Payload{
		Op:       OpDispatch,
		Data:     raw,
		Sequence: &seq,
		Event:    &name,
	})
}

// Close terminates the connection. Safe to call more than once and on a
// connection that never completed its handshake.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// stale reports whether the client has missed its heartbeat window.
func (c *Connection) stale() bool {
	last := time.UnixMilli(c.lastBeat.Load())
	return time.Since(last) > heartbeatInterval+heartbeatTimeout
}

// write sends a single frame with the write deadline applied.
func (c *Connection) write(messageType int, data []byte) error {
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

// readPump reads client payloads until the socket drops. Heartbeats are
// answered inline; everything else is routed to the manager.
func (c *Connection) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("read error", "userID", c.UserID, "error", err)
			}
			return
		}

		var payload Payload
		if err := json.Unmarshal(data, &payload); err != nil {
			slog.Error("invalid payload", "userID", c.UserID, "error", err)
			continue
		}

		switch payload.Op {
		case OpHeartbeat:
			c.lastBeat.Store(time.Now().UnixMilli())
			c.SendPayload(Payload{Op: OpHeartbeatAck})

		case OpIdentify:
			c.manager.handleIdentify(c, payload.Data)

		case OpResume:
			c.manager.handleResume(c, payload.Data)

		case OpPresenceUpdate:
			c.manager.handlePresenceUpdate(c, payload.Data)
		}
	}
}

// writePump drains the Send channel to the socket and prompts the client for
// heartbeats on a timer, disconnecting it when it goes quiet.
func (c *Connection) writePump() {
	ticker := time.NewTicker(heartbeatInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if c.stale() {
				slog.Warn("heartbeat timeout", "userID", c.UserID)
				return
			}
			c.SendPayload(Payload{Op: OpHeartbeat})

		case <-c.done:
			return
		}
	}
}
