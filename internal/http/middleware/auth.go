package middleware

import (
	"net/http"
	"strings"

	"tasktracker/internal/logger"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT validates the Authorization bearer token and stores the resolved
// user_id in the gin context. Expired and malformed tokens are both rejected
// as 401, the distinction only shows up in debug logs.
func JWT(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		userID, err := tokens.Parse(token)
		if err != nil {
			logger.Debug("token rejected", "reason", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
