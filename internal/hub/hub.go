package hub

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/ovenfresh/shopchat/internal/domain"
	"github.com/ovenfresh/shopchat/internal/registry"
	"github.com/ovenfresh/shopchat/internal/store"
)

// Hub implements the presence protocol on top of the registry and the
// message store: session open/registration/close, and message dispatch
// between customers and shops. Malformed or unroutable events are
// logged and dropped; the protocol has no negative-acknowledgement
// channel, so nothing is reported back to the peer.
type Hub struct {
	reg      *registry.Registry
	store    store.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a Hub over the given registry and store.
func New(reg *registry.Registry, s store.Store, logger *slog.Logger) *Hub {
	return &Hub{
		reg:      reg,
		store:    s,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "hub")),
	}
}

// Connect acknowledges a newly opened session, echoing the session id
// so the peer can correlate the connection.
func (h *Hub) Connect(c registry.Conn) {
	ack := domain.ConnectedAck{Type: domain.EvtConnected, SID: c.SID()}
	if data, err := domain.Encode(ack); err == nil {
		c.Send(data)
	}
	h.logger.Info("client connected", slog.String("sid", c.SID()))
}

// RegisterUser binds the connection to the identity named in the
// payload and joins it to its delivery room. Invalid payloads leave
// the connection unregistered.
func (h *Hub) RegisterUser(c registry.Conn, p domain.RegisterPayload) {
	if err := h.validate.Struct(p); err != nil {
		h.logger.Debug("register_user dropped", slog.String("sid", c.SID()), slog.Any("error", err))
		return
	}
	id, ok := p.Identity()
	if !ok {
		h.logger.Debug("register_user dropped: incomplete identity", slog.String("sid", c.SID()))
		return
	}
	h.reg.Register(c, id)
}

// SendMessage persists a message and then attempts best-effort
// delivery to the one currently-live holder of the destination
// identity. Persistence always precedes delivery: a delivered message
// is already recorded, and a recorded message may go undelivered if
// the recipient is offline. A store failure aborts the send.
func (h *Hub) SendMessage(ctx context.Context, c registry.Conn, p domain.SendPayload) {
	sender, ok := h.reg.Identity(c)
	if !ok {
		h.logger.Warn("send_message from unregistered connection", slog.String("sid", c.SID()))
		return
	}
	if err := h.validate.Struct(p); err != nil {
		h.logger.Debug("send_message dropped", slog.String("sid", c.SID()), slog.Any("error", err))
		return
	}

	switch sender.Role {
	case domain.RoleCustomer:
		h.sendFromCustomer(ctx, sender, p)
	case domain.RoleShopkeeper:
		h.sendFromShopkeeper(ctx, sender, p)
	}
}

// Disconnect abandons the connection's registered state. Connections
// that never registered are a no-op.
func (h *Hub) Disconnect(c registry.Conn) {
	h.reg.Remove(c)
	h.logger.Info("client disconnected", slog.String("sid", c.SID()))
}

func (h *Hub) sendFromCustomer(ctx context.Context, sender domain.Identity, p domain.SendPayload) {
	if p.ShopID == 0 {
		h.logger.Debug("send_message dropped: customer without shop_id",
			slog.Int64("user_id", sender.UserID))
		return
	}

	msg := domain.ChatMessage{
		ShopID:     p.ShopID,
		CustomerID: sender.UserID,
		SenderID:   sender.UserID,
		Text:       p.Message,
	}
	if err := h.store.Append(ctx, msg); err != nil {
		h.logger.Error("append chat message",
			slog.Int64("shop_id", p.ShopID),
			slog.Int64("customer_id", sender.UserID),
			slog.Any("error", err))
		return
	}

	env := domain.Envelope{
		Type:       domain.EvtReceiveMessage,
		SenderID:   sender.UserID,
		Message:    p.Message,
		CustomerID: sender.UserID,
	}
	data, err := domain.Encode(env)
	if err != nil {
		return
	}

	// Shops are addressed through the seat lookup, not their room.
	if target, ok := h.reg.ShopConn(p.ShopID); ok {
		target.Send(data)
		return
	}
	h.logger.Debug("shop offline, message persisted only", slog.Int64("shop_id", p.ShopID))
}

func (h *Hub) sendFromShopkeeper(ctx context.Context, sender domain.Identity, p domain.SendPayload) {
	if p.CustomerID == 0 || sender.ShopID == 0 {
		h.logger.Debug("send_message dropped: shopkeeper without customer_id",
			slog.Int64("user_id", sender.UserID))
		return
	}

	msg := domain.ChatMessage{
		ShopID:     sender.ShopID,
		CustomerID: p.CustomerID,
		SenderID:   sender.UserID,
		Text:       p.Message,
	}
	if err := h.store.Append(ctx, msg); err != nil {
		h.logger.Error("append chat message",
			slog.Int64("shop_id", sender.ShopID),
			slog.Int64("customer_id", p.CustomerID),
			slog.Any("error", err))
		return
	}

	env := domain.Envelope{
		Type:     domain.EvtReceiveMessage,
		SenderID: sender.UserID,
		Message:  p.Message,
		ShopID:   sender.ShopID,
	}
	data, err := domain.Encode(env)
	if err != nil {
		return
	}

	// Customers are addressed by the room joined at registration. An
	// empty room means the customer is offline; the message stays in
	// history.
	h.reg.Emit(domain.CustomerRoom(p.CustomerID), data)
}
