package utils

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the logging interface handed to handlers and middleware.
// It is a thin facade over slog so tests can substitute a recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an *slog.Logger in the Logger interface.
func NewSlogLogger(logger *slog.Logger) Logger {
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

const contextLoggerKey = "logger"

// ContextLogger stores a request-scoped logger (tagged with request_id)
// in the gin context.
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestLogger := logger
		if requestID := c.GetString("request_id"); requestID != "" {
			requestLogger = logger.With("request_id", requestID)
		}
		c.Set(contextLoggerKey, requestLogger)
		c.Next()
	}
}

// LoggerFromContext returns the request-scoped logger, or the given
// fallback when middleware did not run (e.g. in tests).
func LoggerFromContext(c *gin.Context, fallback Logger) Logger {
	if v, exists := c.Get(contextLoggerKey); exists {
		if l, ok := v.(Logger); ok {
			return l
		}
	}
	return fallback
}

// LoggerMiddleware logs one line per request with method, path, status
// and latency.
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("request completed",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}
