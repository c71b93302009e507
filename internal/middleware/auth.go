package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/duochat/internal/registry"
	"github.com/thereayou/duochat/pkg/auth"
)

const UsernameKey = "username"

// Auth проверяет Bearer-токен через реестр сессий
func Auth(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		user, ok := reg.Resolve(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(UsernameKey, user.Username)
		c.Next()
	}
}
