package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/analyses"
	"careerhub-backend/internal/applications"
	"careerhub-backend/internal/jobs"
	"careerhub-backend/internal/matching"
	"careerhub-backend/internal/notifications"
	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/report"
	"careerhub-backend/internal/services/health"
	"careerhub-backend/internal/shared/config"
	"careerhub-backend/internal/shared/metrics"
	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
	"careerhub-backend/internal/users"
)

const (
	rateGroupAnalyze = "ANALYZE"
	rateGroupSearch  = "SEARCH"
)

// RouterDeps lists the handlers mounted under /api/v1.
type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	UserHandler         *users.Handler
	ProfileHandler      *profiles.Handler
	AnalysisHandler     *analyses.Handler
	ReportHandler       *report.Handler
	JobHandler          *jobs.Handler
	MatchingHandler     *matching.Handler
	ApplicationHandler  *applications.Handler
	NotificationHandler *notifications.Handler
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth())
	api.GET("/health", func(c *gin.Context) {
		hs := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !hs.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, hs)
	})

	limited := api.Group("")
	limited.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Limiter:  deps.RateLimiter,
		GroupFor: rateGroup,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupAnalyze: {Rate: 10.0 / 60.0, Burst: 5},
			rateGroupSearch:  {Rate: 1, Burst: 20},
		},
	}))

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterRoutes(api)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(api)
		deps.JobHandler.RegisterSearchRoutes(limited)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api)
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(limited)
	}
	if deps.MatchingHandler != nil {
		deps.MatchingHandler.RegisterRoutes(limited)
	}

	return r
}

func rateGroup(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case strings.HasPrefix(path, "/api/v1/analyze-resume"):
		return rateGroupAnalyze
	case strings.HasPrefix(path, "/api/v1/jobs"):
		return rateGroupSearch
	default:
		return ""
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
