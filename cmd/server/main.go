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

	_ "github.com/noah-isme/gradeview-api/api/swagger"
	"github.com/noah-isme/gradeview-api/internal/handler"
	"github.com/noah-isme/gradeview-api/internal/middleware"
	"github.com/noah-isme/gradeview-api/internal/portal"
	"github.com/noah-isme/gradeview-api/internal/repository"
	"github.com/noah-isme/gradeview-api/internal/service"
	"github.com/noah-isme/gradeview-api/pkg/cache"
	"github.com/noah-isme/gradeview-api/pkg/config"
	"github.com/noah-isme/gradeview-api/pkg/database"
	"github.com/noah-isme/gradeview-api/pkg/jobs"
	"github.com/noah-isme/gradeview-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gradeview-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gradeview-api/pkg/middleware/requestid"
)

// @title GradeView API
// @version 1.0.0
// @description Grade calculation and what-if service backing the GradeView mobile app
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	portalClient := portal.NewHTTPClient(portal.Config{
		BaseURL: cfg.Portal.BaseURL,
		Timeout: cfg.Portal.Timeout,
	}, logr, metricsSvc)

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.GradebookTTL, logr, cfg.Cache.Enabled)
	scenarioRepo := repository.NewScenarioRepository(db)

	authSvc := service.NewAuthService(portalClient, cacheRepo, validate, logr, service.AuthConfig{
		TokenSecret:     cfg.JWT.Secret,
		TokenExpiration: cfg.JWT.Expiration,
		SessionTTL:      cfg.Cache.SessionTTL,
	})
	gradebookSvc := service.NewGradebookService(portalClient, cacheSvc, cfg.Cache.GradebookTTL, logr)
	whatIfSvc := service.NewWhatIfService(gradebookSvc, scenarioRepo, cacheSvc, validate, cfg.Cache.WhatIfTTL, logr)
	exportSvc := service.NewExportService(nil, nil, logr)

	var refreshQueue *jobs.Queue
	if cfg.Refresh.Enabled {
		refreshQueue = jobs.NewQueue("gradebook-refresh", gradebookSvc.RefreshJob, jobs.QueueConfig{
			Workers:    cfg.Refresh.Workers,
			MaxRetries: cfg.Refresh.MaxRetries,
			RetryDelay: cfg.Refresh.RetryDelay,
			Logger:     logr,
		})
		refreshQueue.Start(ctx)
		defer refreshQueue.Stop()
		gradebookSvc.AttachRefreshQueue(refreshQueue)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	gradebookHandler := handler.NewGradebookHandler(whatIfSvc)
	whatIfHandler := handler.NewWhatIfHandler(whatIfSvc)
	exportHandler := handler.NewExportHandler(whatIfSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/gradebook", gradebookHandler.Get)
	protected.POST("/whatif/edits", whatIfHandler.ApplyEdit)
	protected.DELETE("/whatif/edits", whatIfHandler.Reset)
	protected.GET("/whatif/scenarios", whatIfHandler.ListScenarios)
	protected.POST("/whatif/scenarios", whatIfHandler.SaveScenario)
	protected.PUT("/whatif/scenarios/:id", whatIfHandler.UpdateScenario)
	protected.POST("/whatif/scenarios/:id/load", whatIfHandler.LoadScenario)
	protected.DELETE("/whatif/scenarios/:id", whatIfHandler.DeleteScenario)
	protected.GET("/export/report-card", exportHandler.ReportCard)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
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
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
