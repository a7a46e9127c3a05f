// Package httpx holds the gin middleware and response helpers shared by every handler.
package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

// Fail writes err as {"error": msg} with the status its kind maps to.
// Server errors are logged with the request id and never leak their cause.
func Fail(c *gin.Context, log *zap.Logger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String(RequestIDKey, c.GetString(RequestIDKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}

// BadRequest reports a binding error.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
