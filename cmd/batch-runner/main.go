package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/andrifar/lemdik-sched-api/internal/repository"
	"github.com/andrifar/lemdik-sched-api/internal/scheduler"
	"github.com/andrifar/lemdik-sched-api/internal/service"
	"github.com/andrifar/lemdik-sched-api/pkg/cache"
	"github.com/andrifar/lemdik-sched-api/pkg/config"
	"github.com/andrifar/lemdik-sched-api/pkg/database"
	"github.com/andrifar/lemdik-sched-api/pkg/docstore"
	"github.com/andrifar/lemdik-sched-api/pkg/logger"
)

// batch-runner executes one assignment batch from the command line, for
// cron jobs and operators who want the result on stdout instead of the
// HTTP surface.
func main() {
	timeout := flag.Duration("timeout", 30*time.Minute, "maximum batch run time")
	pretty := flag.Bool("pretty", false, "indent the JSON result")
	flag.Parse()

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
	courseRepo := repository.NewCourseRepository(db)
	usageRepo := repository.NewUsageRecordRepository(db)

	metrics := service.NewMetricsService()
	tracker := scheduler.NewTracker(usageRepo, logr)
	refdata := service.NewRefDataService(subjectRepo, lecturerRepo, locationRepo, redisClient, metrics, logr, service.RefDataConfig{
		CacheEnabled: cfg.RefData.CacheEnabled,
		CacheTTL:     cfg.RefData.CacheTTL,
	})
	batch := service.NewBatchService(store, refdata, tracker, courseRepo, teamRepo, usageRepo, validator.New(), metrics, logr, cfg.Scheduler.Seed)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := batch.Run(ctx)
	if err != nil {
		logr.Sugar().Fatalw("batch run failed", "error", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	if *pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(result); err != nil {
		logr.Sugar().Fatalw("failed to encode result", "error", err)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "%d document(s) failed\n", len(result.Errors))
		os.Exit(1)
	}
}
