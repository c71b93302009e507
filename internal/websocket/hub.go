package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType определяет типы событий realtime-канала
type EventType string

const (
	// Клиент → сервер
	EventAuthenticate EventType = "authenticate"
	EventSendMessage  EventType = "send_message"
	EventTyping       EventType = "typing"

	// Сервер → клиент
	EventUserStatus  EventType = "user_status"
	EventOnlineUsers EventType = "online_users"
	EventNewMessage  EventType = "new_message"
	EventUserTyping  EventType = "user_typing"
	EventChatCleared EventType = "chat_cleared"
	EventAuthFailed  EventType = "auth_failed"

	// Служебные
	EventPing EventType = "ping"
	EventPong EventType = "pong"
)

// Event — конверт события канала
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Hub struct {
	clients map[uuid.UUID]*Client

	// Соединение, привязанное к пользователю. У пользователя не больше
	// одного слота: повторный authenticate вытесняет предыдущую привязку.
	byUser map[string]uuid.UUID

	register   chan *Client
	unregister chan *Client

	// OnUnbind вызывается, когда привязанное соединение закрылось.
	// Устанавливается до запуска хаба.
	OnUnbind func(username string)

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		byUser:     make(map[string]uuid.UUID),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.byUser = make(map[string]uuid.UUID)
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Printf("Client connected: %s", client.ID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(h.clients, client.ID)
	close(client.Send)

	unbound := ""
	if username := client.Username(); username != "" {
		if h.byUser[username] == client.ID {
			delete(h.byUser, username)
			unbound = username
		}
	}
	h.mu.Unlock()

	log.Printf("Client disconnected: %s", client.ID)

	// Вышел привязанный клиент — домену нужно снять presence и разослать
	// user_status. Вызов вне h.mu: OnUnbind сам рассылает через Broadcast.
	if unbound != "" && h.OnUnbind != nil {
		h.OnUnbind(unbound)
	}
}

// Bind привязывает соединение к пользователю. Последний authenticate
// выигрывает: прежнее соединение возвращается вытесненным и теряет привязку.
func (h *Hub) Bind(client *Client, username string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	var evicted *Client
	if prevID, ok := h.byUser[username]; ok && prevID != client.ID {
		if prev, ok := h.clients[prevID]; ok {
			prev.setUsername("")
			evicted = prev
		}
	}

	h.byUser[username] = client.ID
	client.setUsername(username)
	return evicted
}

// Broadcast отправляет событие всем открытым соединениям
func (h *Hub) Broadcast(eventType EventType, payload interface{}) {
	h.BroadcastExcept(eventType, payload, uuid.Nil)
}

// BroadcastExcept отправляет событие всем, кроме excludeID.
// Используется для user_typing: отправитель своё typing не получает.
func (h *Hub) BroadcastExcept(eventType EventType, payload interface{}, excludeID uuid.UUID) {
	data, err := marshalEvent(eventType, payload)
	if err != nil {
		log.Printf("Error encoding %s event: %v", eventType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.ID == excludeID {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("Client %s send channel full", client.ID)
		}
	}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := marshalEvent(EventPing, nil)
	if err != nil {
		return
	}

	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func marshalEvent(eventType EventType, payload interface{}) ([]byte, error) {
	event := Event{Type: eventType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		event.Data = data
	}
	return json.Marshal(event)
}
