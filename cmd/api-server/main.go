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
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campuspulse/campus-events-api/api/swagger"
	"github.com/campuspulse/campus-events-api/internal/handler"
	"github.com/campuspulse/campus-events-api/internal/images"
	"github.com/campuspulse/campus-events-api/internal/middleware"
	"github.com/campuspulse/campus-events-api/internal/repository"
	"github.com/campuspulse/campus-events-api/internal/service"
	"github.com/campuspulse/campus-events-api/pkg/cache"
	"github.com/campuspulse/campus-events-api/pkg/config"
	"github.com/campuspulse/campus-events-api/pkg/database"
	"github.com/campuspulse/campus-events-api/pkg/jobs"
	"github.com/campuspulse/campus-events-api/pkg/logger"
	corsmiddleware "github.com/campuspulse/campus-events-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuspulse/campus-events-api/pkg/middleware/requestid"
	"github.com/campuspulse/campus-events-api/pkg/storage"
)

// @title Campus Events API
// @version 1.0.0
// @description Discovery and submission backend for campus events
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, event list caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	bucket, err := storage.NewImageBucket(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare image directory", "error", err)
	}

	eventRepo := repository.NewEventRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	processor := images.NewProcessor(cfg.Uploads.MaxWidth, cfg.Uploads.MaxHeight, cfg.Uploads.JPEGQuality)

	eventSvc := service.NewEventService(eventRepo, cacheRepo, bucket, processor, nil, logr, service.EventServiceConfig{
		CacheTTL:    cfg.Uploads.ListCacheTTL,
		TokenSecret: cfg.EditAuth.Secret,
		TokenTTL:    cfg.EditAuth.TokenTTL,
	})
	exportSvc := service.NewExportService(eventSvc)
	metricsSvc := service.NewMetricsService()
	maintenanceSvc := service.NewMaintenanceService(eventRepo, bucket, cfg.Uploads.SweepMinFileAge, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweepQueue := jobs.NewQueue("uploads-maintenance", maintenanceSvc.Handler(), jobs.QueueConfig{Logger: logr})
	sweepQueue.Start(ctx)
	defer sweepQueue.Stop()
	go scheduleSweeps(ctx, sweepQueue, cfg.Uploads.SweepInterval, logr)

	eventHandler := handler.NewEventHandler(eventSvc, metricsSvc, cfg.Uploads.MaxUploadBytes)
	datesHandler := handler.NewDatesHandler()
	mapHandler := handler.NewMapHandler(cfg.Map)
	exportHandler := handler.NewExportHandler(exportSvc, cfg.Exports.Enabled)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	r.Static(cfg.Uploads.PublicBaseURL, bucket.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/events", eventHandler.List)
		api.POST("/events", eventHandler.Create)
		api.GET("/events/export", exportHandler.Export)
		api.GET("/events/:id", eventHandler.Get)
		api.PUT("/events/:id", middleware.BearerToken(), eventHandler.Update)
		api.POST("/events/:id/verify-password", eventHandler.VerifyPassword)
		api.GET("/dates", datesHandler.Window)
		api.GET("/map/config", mapHandler.Config)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// scheduleSweeps enqueues an orphaned-image sweep at a fixed interval.
func scheduleSweeps(ctx context.Context, queue *jobs.Queue, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job := jobs.Job{ID: uuid.NewString(), Type: service.SweepJobType}
			if err := queue.Enqueue(job); err != nil {
				logr.Sugar().Warnw("failed to enqueue sweep", "error", err)
			}
		}
	}
}
