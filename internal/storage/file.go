package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thereayou/duochat/internal/models"
)

const (
	usersFile    = "users.json"
	messagesFile = "messages.json"
)

// FileStore хранит оба документа как JSON-файлы в каталоге данных.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadUsers() (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if err := s.load(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *FileStore) SaveUsers(users map[string]*models.User) error {
	return s.save(usersFile, users)
}

func (s *FileStore) LoadMessages() ([]models.Message, error) {
	messages := make([]models.Message, 0)
	if err := s.load(messagesFile, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *FileStore) SaveMessages(messages []models.Message) error {
	return s.save(messagesFile, messages)
}

// load читает документ; отсутствующий файл — пустой документ, не ошибка
func (s *FileStore) load(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *FileStore) save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
