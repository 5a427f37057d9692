package api

import (
	"net/http" // HTTP status codes

	"kindred/internal/service" // User directory
	"kindred/internal/session" // Session manager

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"max=191"` // Login email, normalized by the service
	Password string `json:"password"`                // Plain text password
}

// CookieOptions controls how the session cookie is written
type CookieOptions struct {
	Secure bool // Only send the cookie over HTTPS
}

// setSessionCookie writes the HTTP-only, SameSite=Lax session cookie
func setSessionCookie(c *gin.Context, sessions *session.Manager, opts CookieOptions, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(sessions.TTL().Seconds()), "/", "", opts.Secure, true)
}

// clearSessionCookie expires the session cookie
func clearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", opts.Secure, true)
}

// LoginHandler verifies credentials and starts a session
func LoginHandler(users *service.UserService, sessions *session.Manager, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c) // If binding fails, return bad request
			return
		}
		ctx := c.Request.Context()
		user, err := users.Login(ctx, req.Email, req.Password) // Check credentials
		if err != nil {
			respondError(c, err, "Login failed.", logrus.Fields{"op": "login"})
			return
		}
		// Drop any session the client already holds before issuing a new one
		if old, err := c.Cookie(session.CookieName); err == nil {
			_ = sessions.Destroy(ctx, old)
		}
		token, info, err := sessions.Create(ctx, user) // Issue a session
		if err != nil {
			respondError(c, err, "Login failed.", logrus.Fields{"op": "login", "user_id": user.ID})
			return
		}
		setSessionCookie(c, sessions, opts, token)
		// Log successful login
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,   // User ID
			"role":    user.Role, // User role
		}).Info("User logged in")
		c.JSON(http.StatusOK, gin.H{"success": true, "user": info}) // Return the session identity
	}
}

// LogoutHandler destroys the caller's session and clears the cookie
func LogoutHandler(sessions *session.Manager, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(session.CookieName); err == nil {
			if err := sessions.Destroy(c.Request.Context(), token); err != nil {
				// The cookie is cleared anyway; the stored session expires on its own
				logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to destroy session")
			}
		}
		clearSessionCookie(c, opts)
		success(c)
	}
}

// SessionHandler reports the caller's session, or null when not logged in
func SessionHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName) // Read the session cookie
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"session": nil})
			return
		}
		info, ok := sessions.Resolve(c.Request.Context(), token)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"session": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": info})
	}
}
