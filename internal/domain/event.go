package domain

// Event types carried in the "type" field of WebSocket frames.
const (
	EvtConnected      = "connected"
	EvtRegisterUser   = "register_user"
	EvtSendMessage    = "send_message"
	EvtReceiveMessage = "receive_message"
)

// RegisterPayload identifies the peer behind a connection. Sent once
// per connection after the connected ack.
type RegisterPayload struct {
	UserID int64  `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=customer shopkeeper"`
	ShopID int64  `json:"shop_id,omitempty" validate:"required_if=Role shopkeeper"`
}

// Identity converts the payload into a tagged identity. ok is false
// for payloads that do not form a complete identity.
func (p RegisterPayload) Identity() (Identity, bool) {
	var id Identity
	switch Role(p.Role) {
	case RoleCustomer:
		id = Customer(p.UserID)
	case RoleShopkeeper:
		id = Shopkeeper(p.UserID, p.ShopID)
	default:
		return Identity{}, false
	}
	return id, id.Valid()
}

// SendPayload carries an outgoing chat message. A customer names the
// destination shop; a shopkeeper names the destination customer.
type SendPayload struct {
	Message    string `json:"message" validate:"required"`
	ShopID     int64  `json:"shop_id,omitempty"`
	CustomerID int64  `json:"customer_id,omitempty"`
}

// ConnectedAck is sent to a peer when its session opens, carrying the
// session id so the peer can correlate the connection.
type ConnectedAck struct {
	Type string `json:"type"`
	SID  string `json:"sid"`
}

// Envelope is the in-transit receive_message payload delivered to the
// resolved target, distinct from the persisted ChatMessage record.
type Envelope struct {
	Type       string `json:"type"`
	SenderID   int64  `json:"sender_id"`
	Message    string `json:"message"`
	CustomerID int64  `json:"customer_id,omitempty"`
	ShopID     int64  `json:"shop_id,omitempty"`
}
