package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ovenfresh/shopchat/internal/domain"
	"github.com/ovenfresh/shopchat/internal/hub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is one WebSocket session speaking the presence protocol. It
// stays anonymous until the peer sends register_user; closing the
// socket is its only exit.
type Client struct {
	hub    *hub.Hub
	conn   *websocket.Conn
	send   chan []byte
	sid    string
	logger *slog.Logger
}

// New creates a Client with the given session id.
func New(h *hub.Hub, conn *websocket.Conn, sid string, logger *slog.Logger) *Client {
	return &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		sid:    sid,
		logger: logger.With(slog.String("sid", sid)),
	}
}

// SID returns the transport session id.
func (c *Client) SID() string {
	return c.sid
}

// Send queues a payload to be written to the peer.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		// Client send buffer full, drop message.
		c.logger.Warn("send buffer full, dropping message")
	}
}

// ReadPump reads frames from the WebSocket connection and dispatches
// them to the hub. On any read error the session is torn down and its
// registry state abandoned.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", slog.Any("error", err))
			}
			return
		}
		c.handleFrame(data)
	}
}

// WritePump writes queued payloads to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame decodes one inbound frame and dispatches on its event
// type. Frames that fail to decode are dropped; the protocol never
// reports errors back to the peer.
func (c *Client) handleFrame(data []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		c.logger.Debug("invalid frame", slog.Any("error", err))
		return
	}

	switch head.Type {
	case domain.EvtRegisterUser:
		var p domain.RegisterPayload
		if err := json.Unmarshal(data, &p); err != nil {
			c.logger.Debug("invalid register_user payload", slog.Any("error", err))
			return
		}
		c.hub.RegisterUser(c, p)

	case domain.EvtSendMessage:
		var p domain.SendPayload
		if err := json.Unmarshal(data, &p); err != nil {
			c.logger.Debug("invalid send_message payload", slog.Any("error", err))
			return
		}
		c.hub.SendMessage(context.Background(), c, p)

	default:
		c.logger.Debug("unknown event type", slog.String("type", head.Type))
	}
}
