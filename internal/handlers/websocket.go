package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "github.com/thereayou/duochat/internal/websocket"
)

// WebSocketHandler принимает realtime-соединения. Аутентификация происходит
// уже внутри канала событием authenticate, поэтому апгрейд без middleware.
type WebSocketHandler struct {
	hub         *ws.Hub
	chatHandler *ChatHandler
	upgrader    websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, chatHandler *ChatHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		chatHandler: chatHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.chatHandler)
}
