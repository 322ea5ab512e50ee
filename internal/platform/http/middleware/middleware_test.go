package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c.Request.Context()))
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(SecurityHeaders()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantHeader string
	}{
		{name: "allowed origin", origin: "http://localhost:3000", method: http.MethodGet, wantStatus: http.StatusOK, wantHeader: "http://localhost:3000"},
		{name: "preflight", origin: "http://localhost:3000", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantHeader: "http://localhost:3000"},
		{name: "other origin proceeds without headers", origin: "https://evil.example", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "other origin preflight rejected", origin: "https://evil.example", method: http.MethodOptions, wantStatus: http.StatusForbidden},
		{name: "same origin", method: http.MethodGet, wantStatus: http.StatusOK},
	}
	r := newRouter(CORS(DefaultCORSConfig("http://localhost:3000/")))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantHeader, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := rec.Header().Get(RequestIDHeader)
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "caller-id", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "caller-id", rec.Body.String())
}

func TestAccessLogAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := newRouter(RequestID(), AccessLog(logger), Recovery(logger))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/problems/internal-error", problem["type"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), problem["requestId"])

	assert.Contains(t, buf.String(), `"msg":"panic recovered"`)
	assert.Contains(t, buf.String(), `"msg":"http request"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
