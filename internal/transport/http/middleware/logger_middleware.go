package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yagro/gostore/pkg/logger"
)

// LoggerConfig holds configuration for the logging middleware
type LoggerConfig struct {
	// Logger is the logger instance to use
	Logger *logger.Logger

	// SkipPaths are paths that should not be logged
	SkipPaths []string

	// RequestIDHeader is the header name for request ID
	RequestIDHeader string
}

// DefaultLoggerConfig returns a default middleware configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Logger:          nil, // Will use global logger
		SkipPaths:       []string{"/health", "/healthz"},
		RequestIDHeader: "X-Request-ID",
	}
}

// LoggerMiddleware returns a Gin middleware for logging HTTP requests
func LoggerMiddleware() gin.HandlerFunc {
	return LoggerMiddlewareWithConfig(DefaultLoggerConfig())
}

// LoggerMiddlewareWithConfig returns a Gin middleware with custom configuration
func LoggerMiddlewareWithConfig(cfg *LoggerConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}

	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skipPaths[path]; ok {
			c.Next()
			return
		}

		log := cfg.Logger
		if log == nil {
			log = logger.Get()
		}

		start := time.Now()

		requestID := c.GetHeader(cfg.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Header(cfg.RequestIDHeader, requestID)
		}
		c.Set("request_id", requestID)

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []logger.Field{
			logger.RequestID(requestID),
			logger.Method(c.Request.Method),
			logger.Path(path),
			logger.Query(c.Request.URL.RawQuery),
			logger.StatusCode(statusCode),
			logger.Latency(latency),
			logger.ClientIP(c.ClientIP()),
			logger.UserAgent(c.Request.UserAgent()),
			logger.BodySize(c.Writer.Size()),
		}

		// Correlate with OTEL trace context when a span is active
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			fields = append(fields,
				logger.TraceID(span.SpanContext().TraceID().String()),
				logger.SpanID(span.SpanContext().SpanID().String()),
			)
		}

		if len(c.Errors) > 0 {
			errs := make([]string, len(c.Errors))
			for i, e := range c.Errors {
				errs[i] = e.Error()
			}
			fields = append(fields, logger.Strings("errors", errs))
		}

		msg := "HTTP Request"
		switch {
		case statusCode >= 500:
			log.Error(msg, fields...)
		case statusCode >= 400:
			log.Warn(msg, fields...)
		default:
			log.Info(msg, fields...)
		}
	}
}

// GetRequestID retrieves the request ID from the gin context
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if reqID, ok := id.(string); ok {
			return reqID
		}
	}
	return ""
}
