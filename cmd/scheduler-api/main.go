package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/andrifar/lemdik-sched-api/api/swagger"
	"github.com/andrifar/lemdik-sched-api/internal/handler"
	internalmiddleware "github.com/andrifar/lemdik-sched-api/internal/middleware"
	"github.com/andrifar/lemdik-sched-api/internal/repository"
	"github.com/andrifar/lemdik-sched-api/internal/scheduler"
	"github.com/andrifar/lemdik-sched-api/internal/service"
	"github.com/andrifar/lemdik-sched-api/pkg/cache"
	"github.com/andrifar/lemdik-sched-api/pkg/config"
	"github.com/andrifar/lemdik-sched-api/pkg/database"
	"github.com/andrifar/lemdik-sched-api/pkg/docstore"
	"github.com/andrifar/lemdik-sched-api/pkg/jobs"
	"github.com/andrifar/lemdik-sched-api/pkg/logger"
	corsmiddleware "github.com/andrifar/lemdik-sched-api/pkg/middleware/cors"
	reqidmiddleware "github.com/andrifar/lemdik-sched-api/pkg/middleware/requestid"
)

// @title Lemdik Scheduling API
// @version 1.0.0
// @description Two-phase term scheduling for academy training teams
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, reference caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	store, err := docstore.New(cfg.Batch.PendingDir, cfg.Batch.DoneDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare document areas", "error", err)
	}

	subjectRepo := repository.NewSubjectRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	usageRepo := repository.NewUsageRecordRepository(db)

	validate := validator.New()
	metrics := service.NewMetricsService()
	tracker := scheduler.NewTracker(usageRepo, logr)

	refdata := service.NewRefDataService(subjectRepo, lecturerRepo, locationRepo, redisClient, metrics, logr, service.RefDataConfig{
		CacheEnabled: cfg.RefData.CacheEnabled,
		CacheTTL:     cfg.RefData.CacheTTL,
	})
	generation := service.NewGenerationService(courseRepo, teamRepo, subjectRepo, holidayRepo, store, validate, metrics, logr, cfg.Scheduler.Seed)
	batch := service.NewBatchService(store, refdata, tracker, courseRepo, teamRepo, usageRepo, validate, metrics, logr, cfg.Scheduler.Seed)

	// A single worker keeps usage-record read-modify-write cycles serial.
	queue := jobs.NewQueue("assign-batch", func(ctx context.Context, job jobs.Job) error {
		result, err := batch.Run(ctx)
		if err != nil {
			return err
		}
		logr.Sugar().Infow("queued batch finished",
			"job_id", job.ID, "processed", len(result.ProcessedFiles), "errors", len(result.Errors))
		return nil
	}, jobs.QueueConfig{Workers: 1, BufferSize: cfg.Batch.QueueBuffer, Logger: logr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx)
	defer queue.Stop()

	scheduleHandler := handler.NewScheduleHandler(generation, batch, queue)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(cfg.JWT.Secret))
	{
		api.POST("/schedules/generate", scheduleHandler.Generate)
		api.POST("/schedules/assign", scheduleHandler.Assign)
		api.GET("/schedules/:teamId", scheduleHandler.TeamSchedule)
		api.DELETE("/schedules", scheduleHandler.Delete)
		api.GET("/usage-records", scheduleHandler.UsageRecords)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
