package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/cache"
	"github.com/stemsi/survey-editor/internal/config"
	"github.com/stemsi/survey-editor/internal/database"
	"github.com/stemsi/survey-editor/internal/handler"
	"github.com/stemsi/survey-editor/internal/logger"
	"github.com/stemsi/survey-editor/internal/repository"
	"github.com/stemsi/survey-editor/internal/router"
	"github.com/stemsi/survey-editor/internal/service"
	"github.com/stemsi/survey-editor/internal/validator"
	"github.com/stemsi/survey-editor/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Dur("session_idle_ttl", cfg.SessionIdleTTL).
		Int("max_sessions", cfg.MaxSessions).
		Msg("Starting survey editor")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Repositories, Caches, Services ───────────────────────────────
	surveyRepo := repository.NewSurveyRepository(pool)
	sessionCache := cache.NewSessionCache(rdb, cfg.SessionIdleTTL)

	surveyService := service.NewSurveyService(surveyRepo, log)
	editorService := service.NewEditorService(surveyService, sessionCache, service.EditorOptions{
		IdleTTL:     cfg.SessionIdleTTL,
		MaxSessions: cfg.MaxSessions,
		LabelLimit:  cfg.LabelMaxLength,
	}, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Survey: handler.NewSurveyHandler(surveyService),
		Editor: handler.NewEditorHandler(editorService),
		WS:     handler.NewWSHandler(sessionCache, editorService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workersDone := make(chan struct{})

	submitWorker := worker.NewSubmitWorker(surveyRepo, rdb, log)
	go func() {
		submitWorker.Start(workerCtx)
		close(workersDone)
	}()
	go editorService.RunJanitor(workerCtx, time.Minute)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, handlers, cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the submit queue to drain.
	workerCancel()
	select {
	case <-workersDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Submit worker did not drain in time")
	}

	if n := editorService.Count(); n > 0 {
		log.Warn().Int("sessions", n).Msg("Unsubmitted editing sessions discarded")
	}
	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
