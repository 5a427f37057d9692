package api

import (
	"encoding/json" // Lenient numeric age
	"net/http"      // HTTP status codes
	"strconv"       // Path id parsing

	"kindred/internal/domain"  // Importing domain models
	"kindred/internal/service" // Participant registry

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// ParticipantRequest is the admin payload for creating or editing a participant
type ParticipantRequest struct {
	FirstName    string      `json:"firstName" binding:"max=191"`    // Required
	LastName     string      `json:"lastName" binding:"max=191"`     // Required
	Age          json.Number `json:"age"`                            // Number or numeric string
	Guardian     string      `json:"guardian" binding:"max=191"`     // Required
	ContactEmail string      `json:"contactEmail" binding:"max=191"` // Required
	ContactPhone string      `json:"contactPhone" binding:"max=64"`  // Required
	SpecialNeeds string      `json:"specialNeeds"`                   // Required
	Notes        string      `json:"notes"`                          // Optional
}

// toInput converts the request into service input; an absent or unparsable age is left nil
func (r ParticipantRequest) toInput() service.ParticipantInput {
	in := service.ParticipantInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Guardian:     r.Guardian,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		SpecialNeeds: r.SpecialNeeds,
		Notes:        r.Notes,
	}
	if r.Age != "" {
		if age, err := r.Age.Float64(); err == nil {
			in.Age = &age
		}
	}
	return in
}

// ParticipantResponse is a participant with its derived full name
type ParticipantResponse struct {
	domain.Participant
	FullName string `json:"fullName"`
}

// newParticipantResponse derives the full name for a participant
func newParticipantResponse(p domain.Participant) ParticipantResponse {
	return ParticipantResponse{Participant: p, FullName: p.FullName()}
}

// participantID parses the :id path parameter, answering 400 when it is not a positive integer
func participantID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid participant id."})
		return 0, false
	}
	return uint(id), true
}

// ListParticipantsHandler returns every participant, newest first
func ListParticipantsHandler(participants *service.ParticipantService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []ParticipantResponse
		// If cached data found, return it
		gen, hit := cache.get(ctx, participantsCacheKey, &cached)
		if hit {
			c.JSON(http.StatusOK, gin.H{"participants": cached, "cached": true})
			return
		}
		list, err := participants.List(ctx) // Fetch participants
		if err != nil {
			respondError(c, err, "Failed to load participant records.", logrus.Fields{"op": "list_participants"})
			return
		}
		resp := make([]ParticipantResponse, len(list))
		for i, p := range list {
			resp[i] = newParticipantResponse(p)
		}
		cache.set(ctx, participantsCacheKey, gen, resp) // Cache the response for future requests
		c.JSON(http.StatusOK, gin.H{"participants": resp, "cached": false})
	}
}

// CreateParticipantHandler adds a participant record
func CreateParticipantHandler(participants *service.ParticipantService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ParticipantRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		ctx := c.Request.Context()
		p, err := participants.Create(ctx, req.toInput())
		if err != nil {
			respondError(c, err, "Failed to create participant record.", logrus.Fields{"op": "create_participant"})
			return
		}
		cache.invalidate(ctx, participantsCacheKey) // Invalidate participant listing cache
		logrus.WithFields(logrus.Fields{"participant_id": p.ID}).Info("Participant created")
		success(c)
	}
}

// UpdateParticipantHandler edits the admin-managed fields of a participant
func UpdateParticipantHandler(participants *service.ParticipantService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := participantID(c)
		if !ok {
			return
		}
		var req ParticipantRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		ctx := c.Request.Context()
		if err := participants.Update(ctx, id, req.toInput()); err != nil {
			respondError(c, err, "Failed to update participant record.", logrus.Fields{"op": "update_participant", "participant_id": id})
			return
		}
		cache.invalidate(ctx, participantsCacheKey) // Invalidate participant listing cache
		logrus.WithFields(logrus.Fields{"participant_id": id}).Info("Participant updated")
		success(c)
	}
}

// DeleteParticipantHandler removes a participant record
func DeleteParticipantHandler(participants *service.ParticipantService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := participantID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		if err := participants.Remove(ctx, id); err != nil {
			respondError(c, err, "Failed to remove participant record.", logrus.Fields{"op": "delete_participant", "participant_id": id})
			return
		}
		cache.invalidate(ctx, participantsCacheKey) // Invalidate participant listing cache
		logrus.WithFields(logrus.Fields{"participant_id": id}).Info("Participant removed")
		success(c)
	}
}
