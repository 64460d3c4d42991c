package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"etugal/internal/services"
)

func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	}
	return 0, false
}

func getProfileID(c *gin.Context) int64 {
	id, _ := getInt64FromCtx(c, "profile_id")
	return id
}

func getUserID(c *gin.Context) int64 {
	id, _ := getInt64FromCtx(c, "user_id")
	return id
}

// respondError maps domain errors to HTTP statuses; anything unrecognized is
// a 500 with a generic message so storage errors never leak.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case services.IsAccountInactive(err):
		c.JSON(http.StatusForbidden, gin.H{"error_message": err.Error()})
	case errors.Is(err, services.ErrDuplicateApplication),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrTaskNotDone),
		errors.Is(err, services.ErrNoPerformerAssigned),
		errors.Is(err, services.ErrPerformerNotFound),
		errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
