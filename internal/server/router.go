package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/export"
	"docgen-backend/internal/generate"
	"docgen-backend/internal/retrieval"
	"docgen-backend/internal/review"
	"docgen-backend/internal/shared/config"
	"docgen-backend/internal/shared/metrics"
	"docgen-backend/internal/shared/server/middleware"
	"docgen-backend/internal/shared/server/respond"
	"docgen-backend/internal/uploads"
)

const apiVersion = "2.0.0"

// RouterDeps carries the wired handlers the router mounts.
type RouterDeps struct {
	Config    config.Config
	DB        *sql.DB
	Retrieval retrieval.Store

	DocumentsHandler *documents.Handler
	ReviewHandler    *review.Handler
	GenerateHandler  *generate.Handler
	ExportHandler    *export.Handler
	UploadsHandler   *uploads.Handler
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
		middleware.RateLimit(rateLimits()),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{
			"message": "Document Generation API",
			"status":  "running",
			"version": apiVersion,
			"agents":  []string{"ingestion", "generation", "review", "compliance"},
		})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", healthHandler(deps))
	deps.DocumentsHandler.RegisterRoutes(api)
	deps.ReviewHandler.RegisterRoutes(api)
	deps.GenerateHandler.RegisterRoutes(api)
	deps.ExportHandler.RegisterRoutes(api)
	deps.UploadsHandler.RegisterRoutes(api)

	return r
}

func healthHandler(deps RouterDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "memory"
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unavailable"
			} else {
				dbStatus = "ok"
			}
		}

		searchStatus := "ok"
		if m, ok := deps.Retrieval.(interface{ Healthy() bool }); ok && !m.Healthy() {
			searchStatus = "unavailable"
		}

		respond.JSON(c, http.StatusOK, gin.H{
			"status":   "healthy",
			"database": dbStatus,
			"search":   searchStatus,
		})
	}
}

func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "default",
		Rules: map[string]middleware.RateLimitRule{
			"default":  {Rate: 20, Burst: 40},
			"generate": {Rate: 2, Burst: 4},
			"upload":   {Rate: 5, Burst: 10},
		},
		GroupFor: func(c *gin.Context) string {
			switch {
			case c.FullPath() == "/api/generate" || c.FullPath() == "/api/generate/stream":
				return "generate"
			case c.FullPath() == "/api/upload":
				return "upload"
			default:
				return "default"
			}
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
