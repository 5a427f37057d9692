package api

import (
	"net/http" // HTTP status codes

	"kindred/internal/middleware" // Session access
	"kindred/internal/service"    // Participant registry

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// ProfileRequest is the guardian-editable part of a participant record
type ProfileRequest struct {
	Interests      string `json:"interests"`      // Free text
	Capabilities   string `json:"capabilities"`   // Free text
	HealthConcerns string `json:"healthConcerns"` // Free text
}

// GetOwnProfileHandler returns the participant record linked to the caller's email, or null
func GetOwnProfileHandler(participants *service.ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, ok := middleware.CurrentSession(c) // Get session from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated."})
			return
		}
		p, err := participants.GetOwnProfile(c.Request.Context(), info.Email)
		if err != nil {
			respondError(c, err, "Failed to load participant profile.", logrus.Fields{"op": "get_own_profile", "user_id": info.UserID})
			return
		}
		if p == nil {
			c.JSON(http.StatusOK, gin.H{"participant": nil}) // No record for this account
			return
		}
		c.JSON(http.StatusOK, gin.H{"participant": newParticipantResponse(*p)})
	}
}

// UpdateOwnProfileHandler lets a guardian edit interests, capabilities and health concerns
func UpdateOwnProfileHandler(participants *service.ParticipantService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, ok := middleware.CurrentSession(c) // Get session from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated."})
			return
		}
		var req ProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		ctx := c.Request.Context()
		err := participants.UpdateOwnProfile(ctx, info.Email, service.ProfileInput{
			Interests:      req.Interests,      // Guardian managed
			Capabilities:   req.Capabilities,   // Guardian managed
			HealthConcerns: req.HealthConcerns, // Guardian managed
		})
		if err != nil {
			respondError(c, err, "Failed to update participant profile.", logrus.Fields{"op": "update_own_profile", "user_id": info.UserID})
			return
		}
		cache.invalidate(ctx, participantsCacheKey) // Listings include the guardian fields
		logrus.WithFields(logrus.Fields{"user_id": info.UserID}).Info("Participant profile updated")
		success(c)
	}
}
