package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggingMiddleware_LogsStatusLevels(t *testing.T) {
	cases := []struct {
		status  int
		level   zapcore.Level
		message string
	}{
		{http.StatusOK, zapcore.InfoLevel, "Request completed"},
		{http.StatusBadRequest, zapcore.WarnLevel, "Request completed with client error"},
		{http.StatusInternalServerError, zapcore.ErrorLevel, "Request completed with server error"},
	}

	for _, tc := range cases {
		core, logs := observer.New(zapcore.InfoLevel)
		logger := zap.New(core)

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(RequestLoggingMiddleware(logger))
		router.GET("/probe", func(c *gin.Context) { c.Status(tc.status) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		entries := logs.All()
		require.Len(t, entries, 1, "status=%d", tc.status)
		assert.Equal(t, tc.level, entries[0].Level)
		assert.Equal(t, tc.message, entries[0].Message)
		assert.Equal(t, "/probe", entries[0].ContextMap()["path"])
	}
}

func TestRecoveryMiddleware_Returns500(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryMiddleware(logger))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	require.Len(t, logs.All(), 1)
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Generated when absent
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// Preserved when supplied
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}

func TestProperty_RequestLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all requests are logged with method and path", prop.ForAll(
		func(method string, segment string) bool {
			path := "/" + segment

			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestLoggingMiddleware(logger))
			router.Handle(method, path, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, path, nil))

			entries := logs.All()
			if len(entries) != 1 {
				return false
			}
			fields := entries[0].ContextMap()
			return fields["method"] == method && fields["path"] == path
		},
		gen.OneConstOf(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete),
		gen.RegexMatch("[a-z]{1,12}"),
	))

	properties.TestingRun(t)
}
