package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raihanm/shopline-golang/internal/auth"
)

// CartSessionCookie names the cookie that keys a guest's ephemeral cart.
const CartSessionCookie = "cart_session"

// AuthMiddleware rejects requests without a valid Bearer token and puts
// the authenticated user ID on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuth sets the user ID when a valid Bearer token is present but
// lets anonymous requests through. Cart endpoints use it so guests and
// authenticated shoppers share one route surface.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if userID, err := auth.ValidateToken(parts[1]); err == nil {
					c.Set("userID", userID)
				}
			}
		}
		c.Next()
	}
}

// GuestSession makes sure every caller carries a cart session cookie and
// exposes its value on the context. The session ID keys the ephemeral
// cart in redis.
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(CartSessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			// Thirty days, lax, HTTP-only.
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CartSessionCookie, sessionID, 30*24*3600, "/", "", false, true)
		}
		c.Set("cartSessionID", sessionID)
		c.Next()
	}
}
