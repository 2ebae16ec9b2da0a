package main

import (
	"context"
	"errors"
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

	_ "github.com/tez-capital/cms-api/api/swagger"
	"github.com/tez-capital/cms-api/internal/handler"
	"github.com/tez-capital/cms-api/internal/middleware"
	"github.com/tez-capital/cms-api/internal/models"
	"github.com/tez-capital/cms-api/internal/repository"
	"github.com/tez-capital/cms-api/internal/service"
	"github.com/tez-capital/cms-api/pkg/cache"
	"github.com/tez-capital/cms-api/pkg/config"
	"github.com/tez-capital/cms-api/pkg/database"
	"github.com/tez-capital/cms-api/pkg/logger"
	corsmiddleware "github.com/tez-capital/cms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tez-capital/cms-api/pkg/middleware/requestid"
	"github.com/tez-capital/cms-api/pkg/response"
	"github.com/tez-capital/cms-api/pkg/storage"
)

// @title TEZ CMS API
// @version 1.0.0
// @description Content management backend for the TEZ Capital & Finance website
// @BasePath /api/v1
// @schemes http https

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	assets, err := storage.NewAssetStore(cfg.Assets.StorageDir, cfg.Assets.PublicBaseURL, cfg.SiteURL, cfg.Assets.StoragePrefix)
	if err != nil {
		logr.Sugar().Fatalw("failed to init asset store", "error", err)
	}

	exportFiles, err := storage.NewAssetStore(cfg.Exports.StorageDir, "", "", "")
	if err != nil {
		logr.Sugar().Fatalw("failed to init export store", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	configRepo := repository.NewConfigurationRepository(db)
	motorRepo := repository.NewMotorRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	eventRepo := repository.NewEventRepository(db)
	serviceItemRepo := repository.NewServiceItemRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	teamRepo := repository.NewTeamMemberRepository(db)
	careerRepo := repository.NewCareerRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	reportRepo := repository.NewReportRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cacheClient := redisClient
	if !cfg.Cache.Enabled {
		cacheClient = nil
	}
	cacheRepo := repository.NewCacheRepository(cacheClient, logr)

	// Services
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	configSvc := service.NewConfigService(configRepo, &meteredCache{repo: cacheRepo, metrics: metricsSvc}, userRepo, assets, validate, logr, service.ConfigServiceConfig{
		CacheEnabled: cfg.Cache.Enabled && redisClient != nil,
		CacheTTL:     cfg.Cache.PublicConfigTTL,
	})
	motorSvc := service.NewMotorService(motorRepo, userRepo, assets, validate, logr)
	installmentSvc := service.NewInstallmentService(motorRepo, validate, logr)
	newsSvc := service.NewNewsService(newsRepo, cacheRepo, userRepo, assets, validate, logr, cfg.Cache.ContentTTL)
	eventSvc := service.NewEventService(eventRepo, userRepo, assets, validate, logr)
	catalogSvc := service.NewCatalogService(serviceItemRepo, partnerRepo, teamRepo, userRepo, assets, validate, logr)
	careerSvc := service.NewCareerService(careerRepo, userRepo, validate, logr)
	complaintSvc := service.NewComplaintService(complaintRepo, userRepo, validate, logr)
	reportSvc := service.NewReportService(reportRepo, userRepo, assets, validate, logr)
	exportSvc := service.NewExportService(exportRepo, complaintRepo, motorRepo, exportFiles, signer, logr, service.ExportServiceConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
	})

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	configHandler := handler.NewConfigHandler(configSvc)
	motorHandler := handler.NewMotorHandler(motorSvc, installmentSvc)
	newsHandler := handler.NewNewsHandler(newsSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	careerHandler := handler.NewCareerHandler(careerSvc)
	complaintHandler := handler.NewComplaintHandler(complaintSvc)
	reportHandler := handler.NewReportHandler(reportSvc, assets)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(response.Timing())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Public surface consumed by the company website.
	api.GET("/config/public", configHandler.Public)
	api.GET("/news", newsHandler.PublicList)
	api.GET("/news/:slug", newsHandler.PublicGet)
	api.GET("/events", eventHandler.PublicList)
	api.GET("/services", catalogHandler.PublicServices)
	api.GET("/partners", catalogHandler.PublicPartners)
	api.GET("/team", catalogHandler.PublicTeam)
	api.GET("/careers", careerHandler.PublicList)
	api.GET("/reports", reportHandler.PublicList)
	api.GET("/reports/:id/download", reportHandler.Download)
	api.GET("/motors", motorHandler.PublicList)
	api.GET("/motors/:id/installment-options", motorHandler.InstallmentOptions)
	api.POST("/motors/:id/calculate", motorHandler.Calculate)
	api.POST("/complaints", complaintHandler.Submit)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	authed := auth.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.POST("/logout", authHandler.Logout)
	authed.POST("/change-password", authHandler.ChangePassword)
	authed.GET("/me", authHandler.Me)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc))

	editors := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor)
	admins := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	adminConfig := admin.Group("/config", admins)
	adminConfig.GET("", configHandler.List)
	adminConfig.GET("/grouped", configHandler.Grouped)
	adminConfig.PUT("", configHandler.Set)
	adminConfig.PUT("/bulk", configHandler.BulkSet)
	adminConfig.DELETE("/:key", configHandler.Delete)

	adminMotors := admin.Group("/motors", editors)
	adminMotors.GET("", motorHandler.List)
	adminMotors.GET("/:id", motorHandler.Get)
	adminMotors.POST("", motorHandler.Create)
	adminMotors.PUT("/:id", motorHandler.Update)
	adminMotors.DELETE("/:id", motorHandler.Delete)

	adminNews := admin.Group("/news", editors)
	adminNews.GET("", newsHandler.List)
	adminNews.GET("/:id", newsHandler.Get)
	adminNews.POST("", newsHandler.Create)
	adminNews.PUT("/bulk-status", newsHandler.BulkStatus)
	adminNews.PUT("/:id", newsHandler.Update)
	adminNews.DELETE("/:id", newsHandler.Delete)

	adminEvents := admin.Group("/events", editors)
	adminEvents.GET("", eventHandler.List)
	adminEvents.GET("/:id", eventHandler.Get)
	adminEvents.POST("", eventHandler.Create)
	adminEvents.PUT("/bulk-status", eventHandler.BulkStatus)
	adminEvents.PUT("/:id", eventHandler.Update)
	adminEvents.DELETE("/:id", eventHandler.Delete)

	adminServices := admin.Group("/services", editors)
	adminServices.GET("", catalogHandler.ListServices)
	adminServices.POST("", catalogHandler.CreateService)
	adminServices.PUT("/:id", catalogHandler.UpdateService)
	adminServices.DELETE("/:id", catalogHandler.DeleteService)

	adminPartners := admin.Group("/partners", editors)
	adminPartners.GET("", catalogHandler.ListPartners)
	adminPartners.POST("", catalogHandler.CreatePartner)
	adminPartners.PUT("/:id", catalogHandler.UpdatePartner)
	adminPartners.DELETE("/:id", catalogHandler.DeletePartner)

	adminTeam := admin.Group("/team", editors)
	adminTeam.GET("", catalogHandler.ListTeam)
	adminTeam.POST("", catalogHandler.CreateTeamMember)
	adminTeam.PUT("/:id", catalogHandler.UpdateTeamMember)
	adminTeam.DELETE("/:id", catalogHandler.DeleteTeamMember)

	adminCareers := admin.Group("/careers", editors)
	adminCareers.GET("", careerHandler.List)
	adminCareers.GET("/:id", careerHandler.Get)
	adminCareers.POST("", careerHandler.Create)
	adminCareers.PUT("/:id", careerHandler.Update)
	adminCareers.DELETE("/:id", careerHandler.Delete)

	adminComplaints := admin.Group("/complaints", admins)
	adminComplaints.GET("", complaintHandler.List)
	adminComplaints.GET("/summary", complaintHandler.Summary)
	adminComplaints.GET("/:id", complaintHandler.Get)
	adminComplaints.PUT("/:id/status", complaintHandler.UpdateStatus)

	adminReports := admin.Group("/reports", editors)
	adminReports.GET("", reportHandler.List)
	adminReports.GET("/:id", reportHandler.Get)
	adminReports.POST("", reportHandler.Publish)
	adminReports.PUT("/:id", reportHandler.Update)
	adminReports.DELETE("/:id", reportHandler.Delete)

	if cfg.Exports.Enabled {
		adminExports := admin.Group("/exports", editors)
		adminExports.POST("", exportHandler.Create)
		adminExports.GET("", exportHandler.List)
		adminExports.GET("/download", exportHandler.Download)
		adminExports.GET("/:id", exportHandler.Get)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Exports.Enabled {
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// meteredCache decorates the Redis cache repository with hit/miss metrics.
type meteredCache struct {
	repo    *repository.CacheRepository
	metrics *service.MetricsService
}

func (m *meteredCache) Get(ctx context.Context, key string, dest interface{}) error {
	err := m.repo.Get(ctx, key, dest)
	m.metrics.RecordCacheOperation(err == nil)
	return err
}

func (m *meteredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.repo.Set(ctx, key, value, ttl)
}

func (m *meteredCache) Delete(ctx context.Context, key string) error {
	return m.repo.Delete(ctx, key)
}
