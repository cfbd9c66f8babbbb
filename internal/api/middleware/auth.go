package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tolo017/eco-sawa/internal/auth"
	"github.com/tolo017/eco-sawa/internal/models"
)

const (
	// ContextKeyAccountID holds the key for the account ID in Gin context.
	ContextKeyAccountID = "accountID"
	// ContextKeyRole holds the key for the account role in Gin context.
	ContextKeyRole = "role"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]
		claims, err := auth.ValidateJWT(tokenString, jwtSecret)
		if err != nil {
			errMsg := fmt.Sprintf("Invalid or expired token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		// Set actor info in context for handlers to use. The account ID
		// doubles as the donor/rescuer ID on lifecycle operations.
		c.Set(ContextKeyAccountID, claims.AccountID)
		c.Set(ContextKeyRole, string(claims.Role))

		c.Next()
	}
}

// RequireRole creates a Gin middleware that checks the authenticated account's
// role. Assumes AuthMiddleware runs first.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get(ContextKeyRole)
		if !exists || got.(string) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("%s role required", role)})
			return
		}
		c.Next()
	}
}
