package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/database"
	"github.com/stemsi/timetable-backend/internal/handler"
	"github.com/stemsi/timetable-backend/internal/holiday"
	"github.com/stemsi/timetable-backend/internal/logger"
	"github.com/stemsi/timetable-backend/internal/middleware"
	"github.com/stemsi/timetable-backend/internal/repository"
	"github.com/stemsi/timetable-backend/internal/router"
	"github.com/stemsi/timetable-backend/internal/service"
	"github.com/stemsi/timetable-backend/internal/validator"
	"github.com/stemsi/timetable-backend/internal/worker"
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
		Msg("Starting Timetable Backend")

	// ─── Load Catalog & Validator ──────────────────────────────────────
	cat := config.DefaultCatalog()
	if err := cat.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid catalog")
	}

	validator.Setup()
	if err := validator.RegisterCatalog(cat); err != nil {
		log.Fatal().Err(err).Msg("Failed to register catalog validators")
	}

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

	// ─── Initialize Repositories ───────────────────────────────────────
	plannerRepo := repository.NewPlannerRepository(pool)
	archiveRepo := repository.NewSnapshotArchiveRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	scheduleStore := repository.NewScheduleStore(rdb, archiveRepo, cat, log)

	// ─── Holiday Calendar ──────────────────────────────────────────────
	static, err := holiday.NewStaticSource(cfg.HolidayStaticDates)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid HOLIDAY_STATIC_DATES")
	}
	nager := holiday.NewNagerSource(cfg.HolidayAPIURL, cfg.HolidayCountry, &http.Client{Timeout: 10 * time.Second})
	publicHolidays := holiday.NewCachedSource(nager, rdb, cfg.HolidayCountry, cfg.HolidayCacheTTL, log)
	holidays := holiday.NewOverlay(holiday.MultiSource{publicHolidays, static}, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	plannerService := service.NewPlannerService(plannerRepo, authService)
	historyService := service.NewHistoryService(archiveRepo)
	scheduleService := service.NewScheduleService(
		cat,
		scheduleStore,
		service.NewRedisEventPublisher(rdb),
		holidays,
		log,
		cfg.PersistTimeout,
	)

	dashboardService := service.NewDashboardService(scheduleService, dashboardRepo)

	// Load the persisted schedule BEFORE accepting traffic.
	scheduleService.Restore(ctx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, plannerService, log),
		Schedule:  handler.NewScheduleHandler(scheduleService, historyService, log),
		Catalog:   handler.NewCatalogHandler(cat),
		Calendar:  handler.NewCalendarHandler(holidays),
		Dashboard: handler.NewDashboardHandler(dashboardService, log),
		System:    handler.NewSystemHandler(rdb, scheduleService, log),
		WS:        handler.NewWSHandler(rdb, scheduleService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	snapshotWorker := worker.NewSnapshotWorker(archiveRepo, rdb, cfg.SnapshotKeep, log)
	holidayRefresher := worker.NewHolidayRefresher(publicHolidays, cfg.HolidayRefreshCron, log)

	workers.Go(func() { snapshotWorker.Start(workerCtx) })
	workers.Go(func() {
		if err := holidayRefresher.Start(workerCtx); err != nil {
			log.Error().Err(err).Msg("Holiday refresher stopped")
		}
	})

	// ─── Setup Router ──────────────────────────────────────────────────
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	r := router.SetupRouter(authService, handlers, loginLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
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

	// 2. Stop background workers and wait for the snapshot queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
