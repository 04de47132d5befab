package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/apperror"
	"taskboard/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags each request with an id, reusing one sent by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request once the handler chain has run.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"request_id": c.GetString(RequestIDKey),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// Timeout gives every request context a deadline.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Unexpected errors are logged with their cause and reported as a generic 500.
func ErrorHandler(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, env := response.ErrorEnvelope(err)
		if _, ok := apperror.As(err); !ok {
			log.WithFields(logrus.Fields{
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(RequestIDKey),
			}).WithError(err).Error("unhandled error")
		}
		c.JSON(status, env)
	}
}

// Recovery turns a panic into the same 500 envelope as any unexpected error.
func Recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithField("request_id", c.GetString(RequestIDKey)).
			Errorf("panic recovered: %v", recovered)
		response.Error(c, fmt.Errorf("panic: %v", recovered))
	})
}

// NotFound answers routes that match nothing.
func NotFound(c *gin.Context) {
	_ = c.Error(apperror.NotFound("Not Found"))
}
