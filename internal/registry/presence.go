package registry

import (
	"time"

	"github.com/thereayou/duochat/internal/models"
)

// MarkOnline привязывает соединение к пользователю и переводит его в online.
// Возвращает событие user_status для рассылки вызывающей стороной.
// Инвариант: online ⇔ socketId установлен ⇔ lastSeen пуст.
func (r *Registry) MarkOnline(username, socketID string) (models.Presence, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return models.Presence{}, false
	}

	user.IsOnline = true
	user.SocketID = &socketID
	user.LastSeen = nil
	r.persistLocked()
	return user.Presence(), true
}

// MarkOffline снимает привязку соединения и фиксирует момент выхода.
func (r *Registry) MarkOffline(username string) (models.Presence, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return models.Presence{}, false
	}

	now := time.Now().UnixMilli()
	user.IsOnline = false
	user.SocketID = nil
	user.LastSeen = &now
	r.persistLocked()
	return user.Presence(), true
}

// OnlineUsers возвращает всех online-пользователей в порядке обхода реестра
func (r *Registry) OnlineUsers() []models.Presence {
	r.mu.Lock()
	defer r.mu.Unlock()

	online := make([]models.Presence, 0, len(r.names))
	for _, name := range r.names {
		if user := r.users[name]; user.IsOnline {
			online = append(online, user.Presence())
		}
	}
	return online
}
