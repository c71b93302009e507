package storage

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/thereayou/duochat/internal/models"
)

const (
	usersKey    = "chat:users"
	messagesKey = "chat:messages"
)

// RedisStore хранит те же два документа как значения двух ключей Redis.
// Выбирается переменной REDIS_URL вместо файлового хранилища.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) LoadUsers() (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if err := s.load(usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *RedisStore) SaveUsers(users map[string]*models.User) error {
	return s.save(usersKey, users)
}

func (s *RedisStore) LoadMessages() ([]models.Message, error) {
	messages := make([]models.Message, 0)
	if err := s.load(messagesKey, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *RedisStore) SaveMessages(messages []models.Message) error {
	return s.save(messagesKey, messages)
}

func (s *RedisStore) load(key string, v interface{}) error {
	data, err := s.rdb.Get(context.Background(), key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *RedisStore) save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(context.Background(), key, data, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
