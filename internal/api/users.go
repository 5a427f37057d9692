package api

import (
	"net/http" // HTTP status codes

	"kindred/internal/middleware" // Session access
	"kindred/internal/service"    // User directory

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// CreateUserRequest is the payload for creating an account
type CreateUserRequest struct {
	Name     string `json:"name" binding:"max=191"`  // Display name
	Email    string `json:"email" binding:"max=191"` // Login email
	Password string `json:"password"`                // Initial password
	Role     string `json:"role" binding:"max=32"`   // ADMIN, VOLUNTEER or PARTICIPANT
}

// UpdateUserRequest is the payload for editing an account
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"max=191"`  // Display name
	Email    string `json:"email" binding:"max=191"` // New login email
	Role     string `json:"role" binding:"max=32"`   // VOLUNTEER or PARTICIPANT
	Password string `json:"password"`                // Optional new password
}

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	Name      string `json:"name"`      // Display name
	Email     string `json:"email"`     // Login email
	Role      string `json:"role"`      // User role
	DateAdded string `json:"dateAdded"` // Creation date
}

// ListUsersHandler returns all accounts without password hashes
func ListUsersHandler(users *service.UserService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []UserAdminResponse
		// If cached data found, return it
		gen, hit := cache.get(ctx, usersCacheKey, &cached)
		if hit {
			c.JSON(http.StatusOK, gin.H{"users": cached, "cached": true})
			return
		}
		list, err := users.List(ctx) // Fetch users
		if err != nil {
			respondError(c, err, "Failed to load users.", logrus.Fields{"op": "list_users"})
			return
		}
		// Map users to response format
		resp := make([]UserAdminResponse, len(list))
		for i, u := range list {
			resp[i] = UserAdminResponse{
				Name:      u.Name,         // Display name
				Email:     u.Email,        // Login email
				Role:      string(u.Role), // User role
				DateAdded: u.DateAdded,    // Creation date
			}
		}
		cache.set(ctx, usersCacheKey, gen, resp) // Cache the response for future requests
		c.JSON(http.StatusOK, gin.H{"users": resp, "cached": false})
	}
}

// CreateUserHandler adds an account
func CreateUserHandler(users *service.UserService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		ctx := c.Request.Context()
		user, err := users.Create(ctx, service.CreateUserInput{
			Name:     req.Name,     // Display name
			Email:    req.Email,    // Login email
			Password: req.Password, // Initial password
			Role:     req.Role,     // Requested role
		})
		if err != nil {
			respondError(c, err, "Failed to create user.", logrus.Fields{"op": "create_user"})
			return
		}
		cache.invalidate(ctx, usersCacheKey) // Invalidate user listing cache
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,   // New user ID
			"role":    user.Role, // New user role
		}).Info("User created")
		success(c)
	}
}

// UpdateUserHandler edits the account identified by the :email path parameter
func UpdateUserHandler(users *service.UserService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		ctx := c.Request.Context()
		target := c.Param("email") // Current email of the account
		err := users.Update(ctx, target, service.UpdateUserInput{
			Name:     req.Name,     // Display name
			Email:    req.Email,    // New email
			Role:     req.Role,     // New role
			Password: req.Password, // Optional new password
		})
		if err != nil {
			respondError(c, err, "Failed to update user.", logrus.Fields{"op": "update_user", "email": target})
			return
		}
		cache.invalidate(ctx, usersCacheKey) // Invalidate user listing cache
		logrus.WithFields(logrus.Fields{"email": target}).Info("User updated")
		success(c)
	}
}

// DeleteUserHandler removes the account identified by the :email path parameter
func DeleteUserHandler(users *service.UserService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, ok := middleware.CurrentSession(c) // The acting admin
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated."})
			return
		}
		ctx := c.Request.Context()
		target := c.Param("email") // Email of the account to remove
		if err := users.Remove(ctx, info.Email, target); err != nil {
			respondError(c, err, "Failed to remove user.", logrus.Fields{"op": "delete_user", "email": target})
			return
		}
		cache.invalidate(ctx, usersCacheKey) // Invalidate user listing cache
		logrus.WithFields(logrus.Fields{
			"email":    target,      // Removed account
			"actor_id": info.UserID, // Acting admin
		}).Info("User removed")
		success(c)
	}
}
