package registry

import (
	"errors"
	"time"

	"github.com/thereayou/duochat/internal/models"
	"github.com/thereayou/duochat/pkg/auth"
)

var ErrUnknownUser = errors.New("unknown user")

// IssueToken выдаёт новый сессионный токен. Предыдущий токен пользователя
// перезаписывается и немедленно становится недействительным.
func (r *Registry) IssueToken(username string) (string, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return "", ErrUnknownUser
	}

	user.Token = token
	r.persistLocked()
	return token, nil
}

// RevokeToken снимает токен и переводит пользователя в offline.
// Неизвестный токен — no-op, возвращает false.
func (r *Registry) RevokeToken(token string) bool {
	if token == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.names {
		user := r.users[name]
		if user.Token != token {
			continue
		}
		now := time.Now().UnixMilli()
		user.Token = ""
		user.IsOnline = false
		user.LastSeen = &now
		user.SocketID = nil
		r.persistLocked()
		return true
	}
	return false
}

// Resolve находит пользователя по токену. Возвращает копию записи.
func (r *Registry) Resolve(token string) (models.User, bool) {
	if token == "" {
		return models.User{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.names {
		if user := r.users[name]; user.Token == token {
			return *user, true
		}
	}
	return models.User{}, false
}
