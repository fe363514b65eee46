package middleware

import (
	"net/http"
	"strings"

	"boardhub/internal/auth"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user's uuid.
const UserIDKey = "userID"

// JWTAuthMiddleware validates the bearer token and puts the user id into the
// request context for handlers to pick up.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}

		userID, err := auth.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
