package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homefax-backend/internal/documents"
	"homefax-backend/internal/events"
	"homefax-backend/internal/items"
	"homefax-backend/internal/maintenance"
	"homefax-backend/internal/properties"
	"homefax-backend/internal/shared/config"
	"homefax-backend/internal/shared/metrics"
	"homefax-backend/internal/shared/server/middleware"
	"homefax-backend/internal/shared/server/respond"
	"homefax-backend/internal/spaces"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config             config.Config
	PropertiesHandler  *properties.Handler
	SpacesHandler      *spaces.Handler
	ItemsHandler       *items.Handler
	EventsHandler      *events.Handler
	DocumentsHandler   *documents.Handler
	MaintenanceHandler *maintenance.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(rateLimitConfig()),
	)

	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	deps.PropertiesHandler.RegisterRoutes(api)
	deps.SpacesHandler.RegisterRoutes(api)
	deps.ItemsHandler.RegisterRoutes(api)
	deps.EventsHandler.RegisterRoutes(api)
	deps.DocumentsHandler.RegisterRoutes(api)
	deps.MaintenanceHandler.RegisterRoutes(api)

	return r
}

// rateLimitConfig keeps uploads on a tighter budget than reads.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"UPLOAD":  {Rate: 0.5, Burst: 5},
			"DEFAULT": {Rate: 10, Burst: 30},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/documents") {
				return "UPLOAD"
			}
			return "DEFAULT"
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
