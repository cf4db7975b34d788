package middlewares

import (
	"net/http"
	"time"

	"github.com/ShepherdBook/initializers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once the handler chain returns.
func RequestLogger(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("requestId", requestID)
	c.Header(requestIDHeader, requestID)

	reqLogger := initializers.Log.With(
		zap.String("requestId", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", path),
	)
	c.Set("logger", reqLogger)

	c.Next()

	status := c.Writer.Status()
	fields := []zap.Field{
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
		zap.String("clientIp", c.ClientIP()),
	}
	if query := c.Request.URL.RawQuery; query != "" {
		fields = append(fields, zap.String("query", query))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
	}

	switch {
	case status >= http.StatusInternalServerError:
		reqLogger.Error("HTTP request", fields...)
	case status >= http.StatusBadRequest:
		reqLogger.Warn("HTTP request", fields...)
	default:
		reqLogger.Info("HTTP request", fields...)
	}
}

func Recovery(c *gin.Context) {
	defer func() {
		if err := recover(); err != nil {
			Logger(c).Error("Panic recovered", zap.Any("error", err), zap.Stack("stacktrace"))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}()
	c.Next()
}

// Logger returns the request-scoped logger, or the application logger outside a request.
func Logger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if reqLogger, ok := l.(*zap.Logger); ok {
			return reqLogger
		}
	}
	return initializers.Log
}
