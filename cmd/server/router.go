package main

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/duochat/internal/handlers"
	"github.com/thereayou/duochat/internal/middleware"
	"github.com/thereayou/duochat/internal/registry"
)

func APIEndpoints(r *gin.Engine, reg *registry.Registry, authH *handlers.AuthHandler, msgH *handlers.HTTPMessageHandler, wsH *handlers.WebSocketHandler) {
	// Auth endpoints
	r.POST("/login", authH.Login)
	r.POST("/logout", authH.Logout)

	// Требуют Bearer-токен
	authorized := r.Group("/", middleware.Auth(reg))
	{
		authorized.GET("/messages", msgH.GetMessages)
		authorized.POST("/clear-chat", msgH.ClearChat)
	}

	// Realtime-канал; authenticate происходит внутри канала
	r.GET("/ws", wsH.HandleWebSocket)

	// Веб-клиент
	r.StaticFile("/", "./public/index.html")
}
