package registry

import (
	"log"
	"sort"
	"sync"

	"github.com/thereayou/duochat/internal/models"
	"github.com/thereayou/duochat/internal/storage"
	"github.com/thereayou/duochat/pkg/auth"
)

// SeedUser — пользователь по умолчанию для первого запуска
type SeedUser struct {
	Username string
	Password string
}

// Registry — фиксированный реестр пользователей. Все мутации проходят под
// одним мьютексом и сохраняются в Store до возврата из метода; ошибка записи
// логируется, процесс продолжает работать с состоянием в памяти.
type Registry struct {
	mu    sync.Mutex
	store storage.Store
	users map[string]*models.User
	names []string // отсортированный порядок обхода
}

// New загружает реестр из хранилища; пустой документ заполняется seed-ами.
// Ошибка чтения (в том числе повреждённый документ) логируется, реестр
// продолжает с seed-ами в памяти — процесс не падает.
func New(store storage.Store, seeds []SeedUser) (*Registry, error) {
	users, err := store.LoadUsers()
	if err != nil {
		log.Printf("Error loading users: %v", err)
		users = nil
	}

	if len(users) == 0 {
		users = make(map[string]*models.User)
		for _, s := range seeds {
			hash, err := auth.HashPassword(s.Password)
			if err != nil {
				return nil, err
			}
			users[s.Username] = &models.User{
				Username:     s.Username,
				PasswordHash: hash,
			}
		}
		if err := store.SaveUsers(users); err != nil {
			log.Printf("Error saving users: %v", err)
		}
	}

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{store: store, users: users, names: names}, nil
}

// persistLocked записывает весь реестр; вызывается под r.mu
func (r *Registry) persistLocked() {
	if err := r.store.SaveUsers(r.users); err != nil {
		log.Printf("Error saving users: %v", err)
	}
}

// Usernames возвращает имена пользователей в порядке обхода реестра
func (r *Registry) Usernames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}
