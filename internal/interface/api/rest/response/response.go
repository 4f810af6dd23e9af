// Package response writes the JSON bodies shared by controllers and
// middleware. Every error body has the shape {"message": "..."}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-exchange-api/internal/apperr"
)

const internalMessage = "Internal server error"

func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindDuplicate, apperr.KindUnsupportedFileType:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts c with the status mapped from err. Causes of 5xx responses
// are logged under op and never sent to the client.
func Error(c *gin.Context, logger *zap.Logger, op string, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" error", zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"message": apperr.MessageOf(err, internalMessage)})
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func Invalid(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "invalid request body",
		"details": details,
	})
}
