package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a logger from LOG_LEVEL and APP_ENV.
func New() *Logger {
	return NewWithWriter(os.Stdout, os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
}

// NewWithWriter builds a logger writing to w. Development gets the text
// handler, everything else JSON.
func NewWithWriter(w io.Writer, env, levelStr string) *Logger {
	level := getLogLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if env == "" || strings.EqualFold(env, "development") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithSessionID adds the visitor session to logger context
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("session_id", sessionID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying l.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored by WithContext, or fallback.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok && l != nil {
		return l
	}
	return fallback
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c echo.Context, duration time.Duration) {
	req := c.Request()
	res := c.Response()
	l.Logger.InfoContext(req.Context(),
		"HTTP Request",
		slog.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("query", req.URL.RawQuery),
		slog.Int("status", res.Status),
		slog.Duration("duration", duration),
		slog.String("ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
		slog.Int64("size", res.Size),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c echo.Context, err error, statusCode int) {
	req := c.Request()
	l.Logger.ErrorContext(req.Context(),
		"HTTP Error",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.RealIP()),
	)
}

// Backend API logging methods

// LogAPICall logs a call to the flight API
func (l *Logger) LogAPICall(ctx context.Context, op string, status int, duration time.Duration, err error) {
	if err != nil {
		l.Logger.WarnContext(ctx,
			"API Call Failed",
			slog.String("op", op),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Logger.DebugContext(ctx,
		"API Call",
		slog.String("op", op),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	)
}

// Business logic logging methods

// LogSearch logs a completed flight search
func (l *Logger) LogSearch(ctx context.Context, route, tripType string, results int, cached bool) {
	l.Logger.InfoContext(ctx,
		"Flight Search",
		slog.String("route", route),
		slog.String("trip_type", tripType),
		slog.Int("results", results),
		slog.Bool("cached", cached),
	)
}

// LogBookingSubmitted logs a confirmed booking
func (l *Logger) LogBookingSubmitted(ctx context.Context, pnr, flightID string, passengers int) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("pnr", pnr),
		slog.String("flight_id", flightID),
		slog.Int("passengers", passengers),
	)
}

// LogBookingFailed logs a booking attempt that did not confirm
func (l *Logger) LogBookingFailed(ctx context.Context, flightID string, err error) {
	l.Logger.WarnContext(ctx,
		"Booking Failed",
		slog.String("flight_id", flightID),
		slog.String("error", err.Error()),
	)
}

// Security logging methods

// LogAuthSuccess logs successful authentication
func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
