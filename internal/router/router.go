package router

import (
	"net/http"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/handler"
	"github.com/cloudexam/cloudexam-backend/internal/middleware"
	"github.com/cloudexam/cloudexam-backend/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	ExamResult *handler.ExamResultHandler
	Health     *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// submitLimiter may be nil to leave submissions unthrottled.
func SetupRouter(
	auth middleware.TokenValidator,
	handlers *Handlers,
	submitLimiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and every envelope carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Health check.
	router.GET("/health", handlers.Health.Health)

	// ─── Exam Results (JWT) ────────────────────────────────────────────
	results := router.Group("/api/exam-results")
	results.Use(middleware.RequireJWT(auth), middleware.NoStore())
	{
		submit := []gin.HandlerFunc{handlers.ExamResult.SubmitExam}
		if submitLimiter != nil {
			submit = append([]gin.HandlerFunc{submitLimiter.Middleware()}, submit...)
		}
		results.POST("", submit...)

		results.GET("/history", handlers.ExamResult.GetHistory)
		results.GET("/stats", handlers.ExamResult.GetStats)
		results.GET("/:id", handlers.ExamResult.GetResult)
	}

	return router
}
