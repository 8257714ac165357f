package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"docisn-pharmacy/internal/realtime"
)

type WSHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(hub *realtime.Hub, log *zap.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve upgrades the request and keeps the subscriber registered until the
// connection drops. Inbound messages are echoed back to the sender; there is
// no other inbound protocol.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.Register(conn)
	defer h.hub.Unregister(client)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var payload interface{}
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = string(raw)
		}
		if err := client.Send(realtime.Message{Event: "echo", Data: payload}); err != nil {
			return
		}
	}
}
