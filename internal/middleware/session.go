package middleware

import (
	"net/http" // HTTP status codes

	"kindred/internal/session" // Session manager

	"github.com/gin-gonic/gin" // Gin web framework
)

// sessionKey is the gin context key holding the resolved *session.Info
const sessionKey = "session"

// SessionAuthMiddleware resolves the session cookie and rejects requests without a valid session
func SessionAuthMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName) // Read the session cookie
		if err != nil {
			// No cookie, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated."})
			return
		}
		info, ok := sessions.Resolve(c.Request.Context(), token) // Look the session up
		if !ok {
			// Expired, destroyed or forged session
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated."})
			return
		}
		c.Set(sessionKey, info) // Store the session for later handlers
		c.Next()                // Proceed to the next handler
	}
}

// CurrentSession returns the session stored by SessionAuthMiddleware
func CurrentSession(c *gin.Context) (*session.Info, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	info, ok := v.(*session.Info)
	return info, ok && info != nil
}
