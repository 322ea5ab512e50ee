package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-user-directory/internal/shared/errors"
)

// AccessLog logs one line per request, at Warn for 4xx and Error for 5xx.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", RequestIDFrom(c.Request.Context())),
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}

// Recovery turns panics into a 500 problem response.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		logger.LogAttrs(c.Request.Context(), slog.LevelError, "panic recovered",
			slog.String("request_id", RequestIDFrom(c.Request.Context())),
			slog.Any("panic", rec),
			slog.String("stack", string(debug.Stack())),
		)
		apierrors.Respond(c, apierrors.ErrInternal)
		c.Abort()
	})
}
