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

	_ "github.com/jansamvad/police-feedback-api/api/swagger"
	"github.com/jansamvad/police-feedback-api/internal/analytics"
	"github.com/jansamvad/police-feedback-api/internal/handler"
	"github.com/jansamvad/police-feedback-api/internal/middleware"
	"github.com/jansamvad/police-feedback-api/internal/repository"
	"github.com/jansamvad/police-feedback-api/internal/service"
	"github.com/jansamvad/police-feedback-api/pkg/cache"
	"github.com/jansamvad/police-feedback-api/pkg/config"
	"github.com/jansamvad/police-feedback-api/pkg/database"
	"github.com/jansamvad/police-feedback-api/pkg/logger"
	"github.com/jansamvad/police-feedback-api/pkg/mailer"
	corsmiddleware "github.com/jansamvad/police-feedback-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jansamvad/police-feedback-api/pkg/middleware/requestid"
	"github.com/jansamvad/police-feedback-api/pkg/storage"
)

// @title Police Feedback API
// @version 1.0.0
// @description Citizen feedback collection and admin review dashboard
// @BasePath /api
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
		// Dashboard caching is an optimisation; the API runs without it.
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
		redisClient = nil
	}

	images, err := storage.NewImageStore(cfg.Uploads.Dir, cfg.Uploads.AllowedExtensions, cfg.Uploads.MaxFileSizeBytes)
	if err != nil {
		logr.Sugar().Fatalw("failed to init image store", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr)
	}

	feedbackRepo := repository.NewFeedbackRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	mailSvc := service.NewMailService(mailer.New(cfg.Mail), cfg.Mail, logr)
	mailSvc.Start(ctx)
	defer mailSvc.Stop()

	analyticsCfg := analytics.DefaultConfig()
	analyticsCfg.ImprovementThreshold = cfg.Analytics.ImprovementThreshold
	analyticsCfg.TrendWindowDays = cfg.Analytics.TrendWindowDays

	feedbackSvc := service.NewFeedbackService(feedbackRepo, images, validate, cacheSvc, metricsSvc, logr, service.FeedbackServiceConfig{
		UploadURLPrefix: cfg.Uploads.URLPrefix,
	})
	dashboardSvc := service.NewDashboardService(feedbackRepo, cacheSvc, analyticsCfg, logr)
	exportSvc := service.NewExportService(feedbackRepo)
	authSvc := service.NewAuthService(adminRepo, mailSvc, validate, logr, service.AuthServiceConfig{
		JWTSecret:     cfg.JWT.Secret,
		JWTExpiration: cfg.JWT.Expiration,
		JWTIssuer:     cfg.JWT.Issuer,
		OTPLength:     cfg.OTP.Length,
		OTPTTL:        cfg.OTP.TTL,
	})

	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static(cfg.Uploads.URLPrefix, images.Dir())

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/feedback", feedbackHandler.Create)
		api.GET("/stations", feedbackHandler.Stations)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/reset-password", authHandler.ResetPassword)

			protected := auth.Group("")
			protected.Use(middleware.JWT(authSvc))
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.Me)
		}

		admin := api.Group("")
		admin.Use(middleware.JWT(authSvc))
		{
			admin.GET("/feedback", feedbackHandler.List)
			admin.GET("/feedback/export", exportHandler.Export)
			admin.GET("/feedback/:id", feedbackHandler.Get)
			admin.PUT("/feedback/:id/read", feedbackHandler.MarkRead)
			admin.DELETE("/feedback/:id", feedbackHandler.Delete)
			admin.DELETE("/feedback", feedbackHandler.DeleteAll)

			admin.GET("/dashboard/summary", dashboardHandler.Summary)
			admin.GET("/dashboard/departments", dashboardHandler.Departments)
			admin.GET("/dashboard/stations", dashboardHandler.Stations)
			admin.GET("/dashboard/trend", dashboardHandler.Trend)
		}
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
