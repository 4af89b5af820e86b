package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/gin-gonic/gin"
)

// statusFromError maps taxonomy errors to HTTP status codes. Anything
// unmatched (including storage failures) is an internal error.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError renders the error with its mapped status. Internal causes
// are logged but not leaked to the client.
func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(), "error", err.Error(), "request_id", c.GetString(requestHeaderID))
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
