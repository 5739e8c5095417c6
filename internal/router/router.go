package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/config"
	"github.com/stemsi/survey-editor/internal/handler"
	"github.com/stemsi/survey-editor/internal/middleware"
	"github.com/stemsi/survey-editor/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Survey *handler.SurveyHandler
	Editor *handler.EditorHandler
	WS     *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background middleware goroutines.
func SetupRouter(ctx context.Context, handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to AllowedOrigins when set, otherwise allow all so dev
	// works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware(log), middleware.AccessLog())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Stored Surveys ─────────────────────────────────────────────
	surveys := router.Group("/api/v1/admin/surveys")
	{
		surveys.GET("", handlers.Survey.ListSurveys)
		surveys.POST("", handlers.Survey.CreateSurvey)
		surveys.GET("/:id", handlers.Survey.GetSurvey)
		surveys.DELETE("/:id", handlers.Survey.DeleteSurvey)
	}

	// ─── 2. Editing Sessions (Rate Limited) ────────────────────────────
	editorLimiter := middleware.NewRateLimiter(ctx, cfg.EditorRateLimit, time.Minute)

	router.POST("/api/v1/admin/surveys/:id/sessions",
		editorLimiter.Middleware(), middleware.NoStore(), handlers.Editor.OpenSession)

	sessions := router.Group("/api/v1/admin/sessions/:sid")
	sessions.Use(editorLimiter.Middleware(), middleware.NoStore())
	{
		sessions.GET("", handlers.Editor.GetSession)
		sessions.DELETE("", handlers.Editor.CloseSession)

		sessions.POST("/questions", handlers.Editor.AddQuestion)
		sessions.PATCH("/questions/:qid", handlers.Editor.UpdateQuestion)
		sessions.DELETE("/questions/:qid", handlers.Editor.DeleteQuestion)
		sessions.PUT("/questions/:qid/skip", handlers.Editor.SetSkip)
		sessions.POST("/questions/:qid/move-up", handlers.Editor.MoveUp)
		sessions.POST("/questions/:qid/move-down", handlers.Editor.MoveDown)

		sessions.PUT("/display-options", handlers.Editor.SetDisplayOptions)
		sessions.PUT("/title", handlers.Editor.SetTitle)
		sessions.POST("/submit", handlers.Editor.Submit)
	}

	// ─── 3. WebSocket Stream ───────────────────────────────────────────
	ws := router.Group("/ws/v1/admin")
	{
		ws.GET("/sessions/:sid/stream", handlers.WS.SessionStream)
	}

	return router
}
