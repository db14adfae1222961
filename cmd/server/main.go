package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/database"
	"github.com/cloudexam/cloudexam-backend/internal/handler"
	"github.com/cloudexam/cloudexam-backend/internal/logger"
	"github.com/cloudexam/cloudexam-backend/internal/middleware"
	"github.com/cloudexam/cloudexam-backend/internal/repository"
	"github.com/cloudexam/cloudexam-backend/internal/router"
	"github.com/cloudexam/cloudexam-backend/internal/service"
	"github.com/cloudexam/cloudexam-backend/internal/validator"
	"github.com/cloudexam/cloudexam-backend/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
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
		Msg("Starting Cloud Exam Backend")

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
	// Redis only backs caches and the stats refresh queue; run without it.
	var rdb *redis.Client
	if client, err := database.NewRedisClient(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, caching disabled")
	} else {
		rdb = client
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	examRepo := repository.NewExamRepository(pool)
	resultRepo := repository.NewExamResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	answerKeys := service.NewAnswerKeyResolver(examRepo, rdb, cfg.AnswerKeyCacheTTL, log)
	resultService := service.NewExamResultService(answerKeys, resultRepo, rdb, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		ExamResult: handler.NewExamResultHandler(resultService, log),
		Health:     handler.NewHealthHandler(database.NewHealthChecker(pool, rdb)),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if rdb != nil {
		statsWorker := worker.NewStatsRefreshWorker(resultService, rdb, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			statsWorker.Start(workerCtx)
		}()
	}

	scheduler := worker.NewScheduler(log)
	audit := worker.NewCatalogAuditJob(examRepo, log)
	if _, err := audit.Schedule(scheduler, cfg.CatalogAuditSchedule); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.CatalogAuditSchedule).Msg("Invalid catalog audit schedule")
	}
	scheduler.Start()

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load every answer key before accepting traffic.
	if _, err := answerKeys.Prewarm(ctx); err != nil {
		log.Warn().Err(err).Msg("Answer key prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRateLimit, time.Minute)
	defer submitLimiter.Stop()

	r := router.SetupRouter(authService, handlers, submitLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// 2. Stop scheduled jobs, then background workers, and wait for them to drain.
	<-scheduler.Stop().Done()
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
