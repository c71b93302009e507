package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/thereayou/duochat/internal/chatlog"
	"github.com/thereayou/duochat/internal/handlers"
	"github.com/thereayou/duochat/internal/registry"
	"github.com/thereayou/duochat/internal/storage"
	ws "github.com/thereayou/duochat/internal/websocket"
)

// Пользователи первого запуска: реестр фиксирован, регистрации нет
var defaultUsers = []registry.SeedUser{
	{Username: "Gauri", Password: "18072007"},
	{Username: "Btye", Password: "18042004"},
}

type Server struct {
	Router   *gin.Engine
	Registry *registry.Registry
	ChatLog  *chatlog.Log
	Hub      *ws.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	store, err := newStore()
	if err != nil {
		log.Fatalf("Storage init failed: %v", err)
	}

	reg, err := registry.New(store, defaultUsers)
	if err != nil {
		log.Fatalf("Registry init failed: %v", err)
	}

	chatLog := chatlog.New(store)

	hub := ws.NewHub()
	chatH := handlers.NewChatHandler(reg, chatLog, hub)
	hub.OnUnbind = chatH.HandleUnbind
	go hub.Run()

	authH := handlers.NewAuthHandler(reg)
	msgH := handlers.NewHTTPMessageHandler(chatLog, hub)
	wsH := handlers.NewWebSocketHandler(hub, chatH)

	router := gin.Default()
	APIEndpoints(router, reg, authH, msgH, wsH)

	return &Server{
		Router:   router,
		Registry: reg,
		ChatLog:  chatLog,
		Hub:      hub,
	}
}

// newStore выбирает хранилище: Redis при заданном REDIS_URL, иначе JSON-файлы
func newStore() (storage.Store, error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return storage.NewRedisStore(url)
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	return storage.NewFileStore(dataDir)
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Printf("Server running on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
