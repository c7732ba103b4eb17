package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hatchpoint/intake-api/api/swagger"
	"github.com/hatchpoint/intake-api/internal/handler"
	"github.com/hatchpoint/intake-api/internal/middleware"
	"github.com/hatchpoint/intake-api/internal/objectstore"
	"github.com/hatchpoint/intake-api/internal/repository"
	"github.com/hatchpoint/intake-api/internal/service"
	"github.com/hatchpoint/intake-api/pkg/cache"
	"github.com/hatchpoint/intake-api/pkg/config"
	"github.com/hatchpoint/intake-api/pkg/database"
	"github.com/hatchpoint/intake-api/pkg/logger"
	corsmiddleware "github.com/hatchpoint/intake-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hatchpoint/intake-api/pkg/middleware/requestid"
)

// @title HatchPoint Intake API
// @version 1.0.0
// @description Lead-intake backend: application submissions, resume storage and the admin panel
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	store, err := objectstore.New(cfg.ObjectStore)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object store client", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Admin.LoginThrottle.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			// Throttling is protective, not load-bearing.
			logr.Warn("redis unavailable, login throttle disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	appRepo := repository.NewApplicationRepository(db)
	appSvc := service.NewApplicationService(appRepo, store, metricsSvc, validate, logr, service.ApplicationServiceConfig{
		Bucket:       cfg.Uploads.Bucket,
		Prefix:       cfg.Uploads.Prefix,
		MaxFileSize:  cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
		SignedURLTTL: cfg.Uploads.SignedURLTTL,
	})
	authSvc := service.NewAuthService(redisClient, metricsSvc, logr, service.AuthConfig{
		Password:            cfg.Admin.Password,
		PasswordHash:        cfg.Admin.PasswordHash,
		SessionSecret:       cfg.Admin.SessionSecret,
		SessionTTL:          cfg.Admin.SessionTTL,
		ThrottleEnabled:     cfg.Admin.LoginThrottle.Enabled,
		ThrottleMaxAttempts: cfg.Admin.LoginThrottle.MaxAttempts,
		ThrottleWindow:      cfg.Admin.LoginThrottle.Window,
	})
	exportSvc := service.NewExportService(appRepo)

	isProd := cfg.Env == config.EnvProduction
	appHandler := handler.NewApplicationHandler(appSvc, exportSvc, cfg.Uploads.MaxFileSizeBytes)
	authHandler := handler.NewAuthHandler(authSvc, isProd)
	adminHandler := handler.NewAdminHandler(appSvc)

	if isProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.LoadHTMLGlob("web/templates/*.html")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		if err := store.Ping(c.Request.Context(), cfg.Uploads.Bucket); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "object store unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if !isProd {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	gate := middleware.AdminGate(authSvc, service.SessionCookieName)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/applications", appHandler.Submit)
		api.DELETE("/applications", gate, appHandler.Delete)
		api.GET("/applications/export", gate, appHandler.Export)
		api.POST("/admin/login", authHandler.Login)
	}

	// The login page stays open so the cookie flow is reachable; everything
	// else under /admin sits behind the gate.
	r.GET("/admin/login", adminHandler.LoginPage)
	r.GET("/admin", gate, adminHandler.Listing)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
