package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"kindred/internal/service" // Service errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// statusFor maps a service error kind to its HTTP status
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnexpected:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a service error as {message}; any other error is logged and reported with the generic fallback message
func respondError(c *gin.Context, err error, fallback string, fields logrus.Fields) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Kind != service.KindUnexpected {
		c.JSON(statusFor(svcErr.Kind), gin.H{"message": svcErr.Message}) // Safe, user facing message
		return
	}
	logrus.WithFields(fields).WithError(err).Error(fallback)           // Log the internal failure
	c.JSON(http.StatusInternalServerError, gin.H{"message": fallback}) // Never leak internals
}

// badRequest rejects a body that could not be decoded
func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request."})
}

// success writes the common {success: true} body
func success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
