package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/resumes"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	Health        *health.Service
	ResumeHandler *resumes.Handler
	RateLimiter   *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(cfg.Version)
	}
	r.GET("/", func(c *gin.Context) {
		respond.OK(c, healthSvc.Info())
	})
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())

	if deps.ResumeHandler != nil {
		var uploadMiddleware []gin.HandlerFunc
		if cfg.UploadRateLimit > 0 {
			rule := middleware.RateLimitRule{Rate: cfg.UploadRateLimit, Burst: cfg.UploadRateBurst}
			uploadMiddleware = append(uploadMiddleware, middleware.RateLimit(rule, deps.RateLimiter))
		}
		deps.ResumeHandler.RegisterRoutes(r, uploadMiddleware...)
	}

	if cfg.Env == "dev" {
		r.GET("/debug/cors", func(c *gin.Context) {
			respond.JSON(c, http.StatusOK, gin.H{
				"message":         "CORS is working!",
				"allowed_origins": cfg.CORSAllowOrigin,
			})
		})
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Not Found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
