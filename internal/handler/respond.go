package handler

import (
	"errors"
	"net/http"
	"poketeam/backend/internal/apperr"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// abortWithError is the single translation point from an error to an HTTP
// response. Tagged apperr kinds map to their status, storage-layer record
// and constraint failures map to 404/400, everything else becomes a
// generic 500 so internals never leak.
func abortWithError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.AbortWithStatusJSON(apperr.Status(appErr), gin.H{"error": appErr.Message})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if isConstraintViolation(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// isConstraintViolation matches unique and foreign key errors from both the
// postgres and the sqlite drivers.
func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "constraint")
}

func currentUserID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}
