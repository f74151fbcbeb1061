package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ovenfresh/shopchat/internal/client"
	"github.com/ovenfresh/shopchat/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request to a WebSocket session, assigns it a
// session id and acknowledges it with a connected event. The peer is
// expected to follow up with register_user.
func ServeWS(h *hub.Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("ws upgrade error", slog.Any("error", err))
			return
		}

		c := client.New(h, conn, uuid.NewString(), logger)
		go c.WritePump()
		go c.ReadPump()
		h.Connect(c)
	}
}
