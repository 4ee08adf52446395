package ws

import "encoding/json"

// Server -> client event names.
const (
	EventNewOrderNotification = "newOrderNotificationPopupNow"
	EventOrderStatusUpdate    = "orderStatusUpdate"
	EventProductStatusUpdate  = "productStatusUpdate"
	EventRefreshConversation  = "refreshConversation"
	EventRefreshCount         = "refreshCount"
)

// Client -> server message types.
const (
	TypeRegister = "register"
	TypeJoin     = "join"
)

// Envelope is the wire format for server-pushed events.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func marshalEvent(event string, data interface{}) []byte {
	b, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil
	}
	return b
}

// InboundMessage is what clients send over the socket: an authentication
// handshake or a room subscription.
type InboundMessage struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`

	// Join payload: room is "<roomType>:<id>", e.g. "seller:42".
	RoomType string `json:"room_type,omitempty"`
	ID       uint   `json:"id,omitempty"`
}
