package registry

import (
	"github.com/thereayou/duochat/pkg/auth"
)

// Verify проверяет пару логин/пароль. Неизвестный пользователь или
// несовпадение хеша — false, без побочных эффектов.
func (r *Registry) Verify(username, password string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return false
	}
	return auth.CheckPassword(user.PasswordHash, password)
}
