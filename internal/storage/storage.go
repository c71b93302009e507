package storage

import (
	"github.com/thereayou/duochat/internal/models"
)

// Store хранит два документа целиком: реестр пользователей и историю
// сообщений. Каждая запись перезаписывает документ полностью.
type Store interface {
	LoadUsers() (map[string]*models.User, error)
	SaveUsers(users map[string]*models.User) error
	LoadMessages() ([]models.Message, error)
	SaveMessages(messages []models.Message) error
}
