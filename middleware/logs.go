package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Logger receives one event per request; defaults to the global zerolog logger
	Logger *zerolog.Logger
	// Include request body in logs
	IncludeBody bool
	// Skip logging for specific paths
	SkipPaths []string
}

// LogData contains all the information that will be logged
type LogData struct {
	Method        string
	Path          string
	URL           string
	Status        int
	Latency       time.Duration
	IP            string
	UserAgent     string
	RequestID     string
	RequestBody   []byte
	Error         string
	ContentLength int64
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		IncludeBody: false,
		SkipPaths:   []string{"/health", "/metrics"},
	}
}

// LoggingMiddleware creates a new logging middleware with the given configuration
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		data := LogData{
			Method:        c.Method(),
			Path:          c.Path(),
			URL:           c.OriginalURL(),
			Status:        statusOf(c, err),
			Latency:       time.Since(start),
			IP:            c.IP(),
			UserAgent:     c.Get(fiber.HeaderUserAgent),
			RequestID:     c.GetRespHeader(fiber.HeaderXRequestID),
			ContentLength: int64(len(c.Response().Body())),
		}
		if cfg.IncludeBody && c.Method() != fiber.MethodGet {
			data.RequestBody = append([]byte(nil), c.Body()...)
		}
		if err != nil {
			data.Error = err.Error()
		}

		logger := cfg.Logger
		if logger == nil {
			logger = &log.Logger
		}
		logRequest(logger, data)

		return err
	}
}

// logRequest picks the level from the status code
func logRequest(logger *zerolog.Logger, data LogData) {
	var event *zerolog.Event
	switch {
	case data.Status >= fiber.StatusInternalServerError:
		event = logger.Error()
	case data.Status >= fiber.StatusBadRequest:
		event = logger.Warn()
	default:
		event = logger.Info()
	}

	event = event.
		Str("method", data.Method).
		Str("path", data.Path).
		Str("url", data.URL).
		Int("status", data.Status).
		Dur("latency", data.Latency).
		Str("ip", data.IP).
		Str("user_agent", data.UserAgent).
		Str("request_id", data.RequestID).
		Int64("content_length", data.ContentLength)
	if len(data.RequestBody) > 0 {
		event = event.Bytes("request_body", data.RequestBody)
	}
	if data.Error != "" {
		event = event.Str("error", data.Error)
	}
	event.Msg("request")
}

// statusOf returns the status the error handler will send. Errors returned down the
// chain have not been written to the response yet.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// RequestLogger creates a middleware that logs detailed request information
func RequestLogger() fiber.Handler {
	return LoggingMiddleware(LogConfig{
		IncludeBody: false,
		SkipPaths:   []string{"/health", "/metrics"},
	})
}
