package handler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightbooking/internal/auth"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

func TestRequestLoggerScopesLogsToRequest(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "production", "info")

	e := echo.New()
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return "req-42" },
	}))
	e.Use(RequestLogger(log))
	e.Use(NewSessionManager(auth.NewCookieSigner("test-secret", time.Hour), "fb_session", false).Middleware)
	e.GET("/ping", func(c echo.Context) error {
		ctx := c.Request().Context()
		logger.FromContext(ctx, nil).InfoContext(ctx, "inside handler")
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var entries []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 2)

	inside := entries[0]
	assert.Equal(t, "inside handler", inside["msg"])
	assert.Equal(t, "req-42", inside["request_id"])
	assert.NotEmpty(t, inside["session_id"])

	assert.Equal(t, "HTTP Request", entries[1]["msg"])
	assert.Equal(t, "req-42", entries[1]["request_id"])
}
