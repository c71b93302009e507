package chatlog

import (
	"strconv"
	"sync"
	"time"

	"github.com/thereayou/duochat/internal/models"
	"github.com/thereayou/duochat/internal/storage"
)

// Log — упорядоченная история сообщений поверх Store. Append и Clear —
// чтение-изменение-запись всего документа, сериализованные мьютексом.
type Log struct {
	mu     sync.Mutex
	store  storage.Store
	lastID int64
}

func New(store storage.Store) *Log {
	return &Log{store: store}
}

// NextID выдаёт id сообщения: миллисекунды от эпохи, строго возрастающие.
// Несколько сообщений в одну миллисекунду получают разные id.
func (l *Log) NextID() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return strconv.FormatInt(id, 10)
}

// Append дописывает сообщение в конец истории
func (l *Log) Append(message models.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages, err := l.store.LoadMessages()
	if err != nil {
		return err
	}
	messages = append(messages, message)
	return l.store.SaveMessages(messages)
}

// All возвращает всю историю в порядке добавления
func (l *Log) All() ([]models.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.LoadMessages()
}

// Clear заменяет историю пустой. Состояние пользователей не трогает.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.SaveMessages([]models.Message{})
}
