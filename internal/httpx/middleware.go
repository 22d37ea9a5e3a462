package httpx

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "rid"

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// HTTP status code
	// example: 404
	Status int `json:"status"`
	// Status text
	// example: Not Found
	Error string `json:"error"`
	// Error detail
	// example: Product Id not found 42
	Message string `json:"message"`
}

// Abort writes an HTTPError body and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "" outside it.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("[http]",
			zap.String("rid", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
		)
	}
}

// Recovery turns a panic into a 500 JSON response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("rid", GetRequestID(c)),
					zap.String("panic", fmt.Sprint(r)),
					zap.ByteString("stack", debug.Stack()),
				)
				Abort(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}

// RequireContentType rejects requests whose Content-Type header is not
// exactly contentType. Parameters such as charset are not accepted.
func RequireContentType(contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("Content-Type")
		if got == "" {
			zap.S().Error("No Content-Type specified.")
			Abort(c, http.StatusUnsupportedMediaType, "Content-Type must be "+contentType)
			return
		}
		if got != contentType {
			zap.S().Errorf("Invalid Content-Type: %s", got)
			Abort(c, http.StatusUnsupportedMediaType, "Content-Type must be "+contentType)
			return
		}
		c.Next()
	}
}
