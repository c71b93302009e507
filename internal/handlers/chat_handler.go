package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/thereayou/duochat/internal/chatlog"
	"github.com/thereayou/duochat/internal/handlers/dto"
	"github.com/thereayou/duochat/internal/models"
	"github.com/thereayou/duochat/internal/registry"
	ws "github.com/thereayou/duochat/internal/websocket"
)

// ChatHandler обрабатывает события realtime-канала. Соединение начинает
// без привязки; до успешного authenticate события send_message и typing
// молча отбрасываются. Запись в хранилище всегда завершается до рассылки
// соответствующего события.
type ChatHandler struct {
	registry *registry.Registry
	chatLog  *chatlog.Log
	hub      *ws.Hub
}

func NewChatHandler(reg *registry.Registry, chatLog *chatlog.Log, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{registry: reg, chatLog: chatLog, hub: hub}
}

func (h *ChatHandler) HandleMessage(client *ws.Client, event *ws.Event) error {
	switch event.Type {
	case ws.EventAuthenticate:
		return h.handleAuthenticate(client, event)

	case ws.EventSendMessage:
		return h.handleSendMessage(client, event)

	case ws.EventTyping:
		return h.handleTyping(client, event)

	default:
		log.Printf("Unknown event type: %s", event.Type)
		return nil
	}
}

func (h *ChatHandler) handleAuthenticate(client *ws.Client, event *ws.Event) error {
	var payload dto.AuthenticatePayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}

	user, ok := h.registry.Resolve(payload.Token)
	if !ok {
		return client.SendEvent(ws.EventAuthFailed, map[string]string{"error": "invalid token"})
	}

	// Последний authenticate выигрывает: прежнее соединение пользователя
	// теряет привязку и дальше ведет себя как неаутентифицированное.
	if evicted := h.hub.Bind(client, user.Username); evicted != nil {
		log.Printf("User %s rebound from %s to %s", user.Username, evicted.ID, client.ID)
	}

	presence, ok := h.registry.MarkOnline(user.Username, client.ID.String())
	if !ok {
		return nil
	}

	h.hub.Broadcast(ws.EventUserStatus, presence)

	return client.SendEvent(ws.EventOnlineUsers, h.registry.OnlineUsers())
}

func (h *ChatHandler) handleSendMessage(client *ws.Client, event *ws.Event) error {
	// Отправителя определяет привязка соединения, не presence: соединение
	// без привязки отбрасывается молча.
	username := client.Username()
	if username == "" {
		return nil
	}

	var payload dto.MessagePayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}

	message := models.Message{
		ID:        h.chatLog.NextID(),
		Sender:    username,
		Content:   payload.Content,
		Timestamp: time.Now().UnixMilli(),
		Type:      "text",
	}

	if err := h.chatLog.Append(message); err != nil {
		log.Printf("Error saving message: %v", err)
	}

	// Всем, включая отправителя: клиент рисует своё сообщение из рассылки
	h.hub.Broadcast(ws.EventNewMessage, message)
	return nil
}

func (h *ChatHandler) handleTyping(client *ws.Client, event *ws.Event) error {
	username := client.Username()
	if username == "" {
		return nil
	}

	var payload dto.TypingPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}

	h.hub.BroadcastExcept(ws.EventUserTyping, dto.TypingBroadcast{
		Username: username,
		IsTyping: payload.IsTyping,
	}, client.ID)
	return nil
}

// HandleUnbind вызывается хабом после закрытия привязанного соединения
func (h *ChatHandler) HandleUnbind(username string) {
	presence, ok := h.registry.MarkOffline(username)
	if !ok {
		return
	}
	h.hub.Broadcast(ws.EventUserStatus, presence)
}
