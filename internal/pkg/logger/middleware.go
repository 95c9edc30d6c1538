package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// MiddlewareOptions configures the request logging middleware
type MiddlewareOptions struct {
	// SkipPaths are logged never, e.g. "/health"
	SkipPaths []string
	// SkipPathPrefixes are matched with strings.HasPrefix
	SkipPathPrefixes []string
}

// GinLogger logs every request with a request ID
func GinLogger(l *Logger) gin.HandlerFunc {
	return GinLoggerWithConfig(l, MiddlewareOptions{})
}

// GinLoggerWithConfig tags each request with an X-Request-ID (generated when the client
// did not send one), stores it in the request context and logs the outcome by status class.
func GinLoggerWithConfig(l *Logger, opts MiddlewareOptions) gin.HandlerFunc {
	skipPaths := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skipPaths[p] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := WithRequestID(c.Request.Context(), requestID)
		ctx = ToContext(ctx, l)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)

		path := c.Request.URL.Path
		if shouldSkip(path, skipPaths, opts.SkipPathPrefixes) {
			c.Next()
			return
		}

		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			l.Error("HTTP Request", fields...)
		case status >= 400:
			l.Warn("HTTP Request", fields...)
		default:
			l.Info("HTTP Request", fields...)
		}
	}
}

func shouldSkip(path string, exact map[string]struct{}, prefixes []string) bool {
	if _, ok := exact[path]; ok {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GinRecovery recovers from handler panics and answers 500
func GinRecovery(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				l.Error("Panic recovered",
					zap.String("request_id", GetRequestID(c.Request.Context())),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(500)
			}
		}()

		c.Next()
	}
}
