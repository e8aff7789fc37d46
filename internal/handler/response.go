package handler

import (
	"errors"
	"net/http"

	"gooxalert/internal/middleware"
	"gooxalert/internal/phone"
	"gooxalert/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondSuccess writes the success envelope with the given payload fields.
func respondSuccess(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError writes the error envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// respondFieldErrors writes the error envelope with a per-field error map.
func respondFieldErrors(c *gin.Context, status int, message string, fieldErrors gin.H) {
	c.JSON(status, gin.H{"status": "error", "message": message, "errors": fieldErrors})
}

// respondServiceError maps service-layer errors onto the envelope. Unknown
// errors are logged with their full chain and reported opaquely; raw internal
// error text never reaches the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, phone.ErrInvalid):
		respondFieldErrors(c, http.StatusBadRequest, "Invalid data", gin.H{"telephone": []string{err.Error()}})
	case errors.Is(err, service.ErrPhoneAlreadyRegistered):
		respondFieldErrors(c, http.StatusBadRequest, "Invalid data", gin.H{"telephone": []string{err.Error()}})
	case errors.Is(err, service.ErrInvalidRole):
		respondFieldErrors(c, http.StatusBadRequest, "Invalid data", gin.H{"role": []string{err.Error()}})
	case errors.Is(err, service.ErrInvalidCategory):
		respondFieldErrors(c, http.StatusBadRequest, "Invalid data", gin.H{"category": []string{err.Error()}})
	case errors.Is(err, service.ErrWrongOldPassword),
		errors.Is(err, service.ErrSamePassword),
		errors.Is(err, service.ErrInvalidResetCode),
		errors.Is(err, service.ErrNoImageProvided):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSignalementNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		respondError(c, http.StatusInternalServerError, "An internal error occurred")
	}
}

// getAuthUserID returns the authenticated user id set by the JWT middleware.
func getAuthUserID(c *gin.Context) (int, bool) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDVal.(int)
	return userID, ok
}
