package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/duochat/internal/chatlog"
	"github.com/thereayou/duochat/internal/models"
	ws "github.com/thereayou/duochat/internal/websocket"
)

type HTTPMessageHandler struct {
	chatLog *chatlog.Log
	hub     *ws.Hub
}

func NewHTTPMessageHandler(chatLog *chatlog.Log, hub *ws.Hub) *HTTPMessageHandler {
	return &HTTPMessageHandler{chatLog: chatLog, hub: hub}
}

// GetMessages возвращает всю историю в порядке добавления.
// Ошибка чтения хранилища логируется, клиент получает пустую историю.
func (h *HTTPMessageHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatLog.All()
	if err != nil {
		log.Printf("Error loading messages: %v", err)
		messages = []models.Message{}
	}

	c.JSON(http.StatusOK, messages)
}

// ClearChat очищает историю и рассылает chat_cleared всем соединениям
func (h *HTTPMessageHandler) ClearChat(c *gin.Context) {
	if err := h.chatLog.Clear(); err != nil {
		log.Printf("Error clearing messages: %v", err)
	}

	h.hub.Broadcast(ws.EventChatCleared, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
