package api

import (
	"kindred/internal/middleware" // Authorization guards
	"kindred/internal/service"    // Services
	"kindred/internal/session"    // Session manager

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Dependencies are the collaborators the HTTP routes need
type Dependencies struct {
	DB           *gorm.DB                    // Database, for health checks
	Redis        *redis.Client               // Redis, for health checks
	Users        *service.UserService        // User directory
	Participants *service.ParticipantService // Participant registry
	Sessions     *session.Manager            // Session manager
	Cache        *ListCache                  // Admin listing cache
	Cookie       CookieOptions               // Session cookie options
}

// RegisterRoutes mounts the JSON API on r
func RegisterRoutes(r *gin.Engine, d Dependencies) {
	r.GET("/healthz", HealthHandler(d.DB, d.Redis)) // Health check endpoint

	// Auth routes
	auth := r.Group("/api/auth")
	auth.POST("/login", LoginHandler(d.Users, d.Sessions, d.Cookie)) // Login endpoint
	auth.POST("/logout", LogoutHandler(d.Sessions, d.Cookie))        // Logout endpoint
	auth.GET("/session", SessionHandler(d.Sessions))                 // Current session endpoint

	authenticated := middleware.SessionAuthMiddleware(d.Sessions)

	// Admin routes (session required, admin only)
	admin := r.Group("/api")
	admin.Use(authenticated, middleware.AdminOnlyMiddleware())
	admin.GET("/users", ListUsersHandler(d.Users, d.Cache))                              // List users endpoint
	admin.POST("/users", CreateUserHandler(d.Users, d.Cache))                            // Create user endpoint
	admin.PUT("/users/:email", UpdateUserHandler(d.Users, d.Cache))                      // Update user endpoint
	admin.DELETE("/users/:email", DeleteUserHandler(d.Users, d.Cache))                   // Delete user endpoint
	admin.GET("/participants", ListParticipantsHandler(d.Participants, d.Cache))         // List participants endpoint
	admin.POST("/participants", CreateParticipantHandler(d.Participants, d.Cache))       // Create participant endpoint
	admin.PUT("/participants/:id", UpdateParticipantHandler(d.Participants, d.Cache))    // Update participant endpoint
	admin.DELETE("/participants/:id", DeleteParticipantHandler(d.Participants, d.Cache)) // Delete participant endpoint

	// Guardian routes (session required, scoped to the caller's email)
	guardian := r.Group("/api/guardian")
	guardian.Use(authenticated)
	guardian.GET("/participant", GetOwnProfileHandler(d.Participants))             // Own profile endpoint
	guardian.PUT("/participant", UpdateOwnProfileHandler(d.Participants, d.Cache)) // Own profile update endpoint
}
