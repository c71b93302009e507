package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/duochat/internal/handlers/dto"
	"github.com/thereayou/duochat/internal/registry"
)

type AuthHandler struct {
	registry *registry.Registry
}

func NewAuthHandler(reg *registry.Registry) *AuthHandler {
	return &AuthHandler{registry: reg}
}

// Login проверяет учетные данные и выдает сессионный токен.
// Повторный логин перезаписывает предыдущий токен пользователя.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	if !h.registry.Verify(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.registry.IssueToken(req.Username)
	if err != nil {
		log.Printf("Error issuing token for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success:  true,
		Token:    token,
		Username: req.Username,
	})
}

// Logout снимает токен. Неизвестный токен — no-op, ответ всё равно успешный.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	h.registry.RevokeToken(req.Token)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
