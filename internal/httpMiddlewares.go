package internal

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var timeFormat = "2006-01-02 15:04:05 -0700"

// LoggerMiddleware writes one logrus entry per request.
func LoggerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// other handler can change c.Path so:
		path := c.Request.URL.Path
		start := time.Now()

		c.Next()

		stop := time.Since(start)
		latency := int(math.Ceil(float64(stop.Nanoseconds()) / 1000000.0))
		statusCode := c.Writer.Status()
		dataLength := c.Writer.Size()
		if dataLength < 0 {
			dataLength = 0
		}

		entry := logger.WithFields(logrus.Fields{
			"statusCode": statusCode,
			"latency":    latency,
			"clientIP":   c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
			"dataLength": dataLength,
			"req_at":     start.Format(timeFormat),
		})

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
			return
		}

		msg := fmt.Sprintf("\"%s %s\" %d %d (%dms)", c.Request.Method, path, statusCode, dataLength, latency)
		switch {
		case statusCode >= http.StatusInternalServerError:
			entry.Error(msg)
		case statusCode >= http.StatusBadRequest:
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
	}
}

// ClosingMiddleware rejects new invocations once shutdown has begun.
func ClosingMiddleware(server *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if server.Closing.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server is shutting down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
