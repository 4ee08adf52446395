package ws

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Hub owns the presence registry: a process-local map from account id to the
// one live connection for that account, plus room subscriptions for broadcast
// delivery. Entries are ephemeral; a restart or dropped connection silently
// loses them, and durable notification rows cover for that.
type Hub struct {
	// Registered clients (authenticated or not).
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// accounts maps account id -> live connection. One connection per
	// account; a second registration overwrites the first.
	accounts map[uint]*Client

	// rooms maps "<type>:<id>" -> subscribed clients.
	rooms map[string]map[*Client]bool

	mutex  sync.Mutex
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		accounts:   make(map[uint]*Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.logger.Info("client connected", zap.String("conn_id", client.ID))
		case client := <-h.Unregister:
			h.drop(client)
		}
	}
}

// Bind stores the account -> connection mapping after a successful register
// handshake. Last registration wins: an existing connection for the same
// account is evicted through the full drop path, so it also leaves every
// room it joined and later broadcasts cannot reach its closed channel.
func (h *Hub) Bind(client *Client, accountID uint) {
	h.mutex.Lock()
	previous, replaced := h.accounts[accountID]
	if replaced && previous != client {
		h.dropLocked(previous)
	}
	h.accounts[accountID] = client
	h.mutex.Unlock()

	client.setAccount(accountID)
	if replaced {
		h.logger.Info("presence re-registered", zap.Uint("account_id", accountID))
	} else {
		h.logger.Info("presence registered", zap.Uint("account_id", accountID))
	}
}

// Lookup returns the live connection for an account, if any.
func (h *Hub) Lookup(accountID uint) (*Client, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	c, ok := h.accounts[accountID]
	return c, ok
}

// IsOnline reports whether an account has a registered connection.
func (h *Hub) IsOnline(accountID uint) bool {
	_, ok := h.Lookup(accountID)
	return ok
}

// Join subscribes a connection to a room. Room membership does not require a
// register handshake; any connected socket may listen on a room.
func (h *Hub) Join(client *Client, roomType string, id uint) {
	room := RoomName(roomType, id)
	h.mutex.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	h.mutex.Unlock()
	h.logger.Info("joined room", zap.String("room", room), zap.String("conn_id", client.ID))
}

// EmitToAccount pushes an event to the account's registered connection.
// Returns false when the account is offline; callers treat delivery as
// best-effort either way. The send happens under the hub mutex, the only
// place channels are closed, so it can never hit a closed channel.
func (h *Hub) EmitToAccount(accountID uint, event string, data interface{}) bool {
	payload := marshalEvent(event, data)
	if payload == nil {
		return false
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	client, ok := h.accounts[accountID]
	if !ok {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		h.dropLocked(client)
		return false
	}
}

// EmitToRoom broadcasts an event to every subscriber of a room.
func (h *Hub) EmitToRoom(roomType string, id uint, event string, data interface{}) {
	payload := marshalEvent(event, data)
	if payload == nil {
		return
	}
	room := RoomName(roomType, id)

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.rooms[room] {
		select {
		case client.Send <- payload:
		default:
			h.dropLocked(client)
		}
	}
}

// drop removes a client from the client set, every room, and the presence
// registry.
func (h *Hub) drop(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.dropLocked(client)
}

// dropLocked is the single place a Send channel is closed. Callers must hold
// the mutex. Disconnects carry no account id, so the registry entry is found
// by reverse value match.
func (h *Hub) dropLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	for accountID, c := range h.accounts {
		if c == client {
			delete(h.accounts, accountID)
			h.logger.Info("presence removed", zap.Uint("account_id", accountID))
			break
		}
	}

	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomName builds the canonical "<type>:<id>" room key.
func RoomName(roomType string, id uint) string {
	return fmt.Sprintf("%s:%d", roomType, id)
}
