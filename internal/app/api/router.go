package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	userhandler "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/http/handler"
	"github.com/Apurer/go-gin-user-directory/internal/platform/http/middleware"
	apierrors "github.com/Apurer/go-gin-user-directory/internal/shared/errors"
)

// NewRouter assembles the gin engine: middleware, problem handlers, health and the /User resource.
func NewRouter(cfg Config, serviceName string, logger *slog.Logger, users *userhandler.UserAPI) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		otelgin.Middleware(serviceName),
		middleware.AccessLog(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins...)),
	)
	router.NoRoute(apierrors.NoRoute)
	router.NoMethod(apierrors.NoMethod)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	users.RegisterRoutes(router)
	return router
}
