package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
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

// Authenticator resolves a bearer token from the register handshake to an
// internal account id. Implemented outside this package so the hub stays
// free of database concerns.
type Authenticator interface {
	AuthenticateToken(token string) (accountID uint, err error)
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// Connection id, for logging only.
	ID string

	// Auth verifies register handshakes.
	Auth Authenticator

	// accountID is zero until a register handshake succeeds.
	accountID uint
	mu        sync.Mutex

	logger *zap.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, id string, auth Authenticator, logger *zap.Logger) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		ID:     id,
		Auth:   auth,
		logger: logger,
	}
}

func (c *Client) setAccount(accountID uint) {
	c.mu.Lock()
	c.accountID = accountID
	c.mu.Unlock()
}

// AccountID returns the bound account id, or zero if unauthenticated.
func (c *Client) AccountID() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountID
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", zap.String("conn_id", c.ID), zap.Error(err))
			}
			break
		}
		if !c.handleMessage(message) {
			break
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush queued messages into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches an inbound client message. Returns false when the
// connection must be closed (failed register handshake).
func (c *Client) handleMessage(message []byte) bool {
	var msg InboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("unparseable websocket message", zap.String("conn_id", c.ID), zap.Error(err))
		return true
	}

	switch msg.Type {
	case TypeRegister:
		accountID, err := c.Auth.AuthenticateToken(msg.Token)
		if err != nil {
			c.logger.Warn("websocket register rejected", zap.String("conn_id", c.ID), zap.Error(err))
			return false
		}
		c.Hub.Bind(c, accountID)
	case TypeJoin:
		if msg.RoomType == "" || msg.ID == 0 {
			return true
		}
		c.Hub.Join(c, msg.RoomType, msg.ID)
	}
	return true
}
