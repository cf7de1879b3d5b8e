package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/infrastructure/auth"
	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/lock"
	"github.com/shopsync/backend/internal/infrastructure/logger"
	"github.com/shopsync/backend/internal/infrastructure/persistence"
	"github.com/shopsync/backend/internal/infrastructure/providers"
	"github.com/shopsync/backend/internal/infrastructure/telemetry"
	"github.com/shopsync/backend/internal/interfaces/http/handler"
	"github.com/shopsync/backend/internal/interfaces/http/middleware"
	"github.com/shopsync/backend/internal/interfaces/http/router"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting integration sync service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	otelProviders, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    serviceVersion,
		Insecure:          cfg.Telemetry.Insecure,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", db.Stats().MaxOpenConnections),
	)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	integrationRepo := persistence.NewGormProductIntegrationRepository(db.DB)
	providerRepo := persistence.NewGormProviderConfigRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)

	registry := providers.NewDefaultRegistry(providers.Options{
		HTTPTimeout:     cfg.Providers.HTTPTimeout,
		TakealotBaseURL: cfg.Providers.TakealotBaseURL,
		Logger:          log,
	})

	syncMetrics, err := telemetry.NewSyncMetrics(otelProviders.Meter("shopsync/integration"))
	if err != nil {
		log.Fatal("Failed to create sync metrics", zap.Error(err))
	}

	var runLocker appintegration.RunLocker = lock.NoopRunLocker{}
	if cfg.Sync.RunLockEnabled {
		redisClient, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		runLocker = lock.NewRedisRunLocker(redisClient, lock.SyncRunKey, cfg.Sync.RunLockTTL, log)
		log.Info("Sync run lock enabled", zap.String("redis", cfg.Redis.Addr()), zap.Duration("ttl", cfg.Sync.RunLockTTL))
	}

	syncService := appintegration.NewSyncService(
		integrationRepo, providerRepo, productRepo, supplierRepo, registry, log,
		appintegration.WithRunLocker(runLocker),
		appintegration.WithSyncMetrics(syncMetrics),
		appintegration.WithBatchSize(cfg.Sync.BatchSize),
	)
	integrationService := appintegration.NewIntegrationService(integrationRepo, productRepo, supplierRepo, log, nil)
	bulkService := appintegration.NewBulkService(integrationRepo, log, nil)
	healthService := appintegration.NewHealthService(integrationRepo, nil)
	providerService := appintegration.NewProviderConfigService(providerRepo, log)

	routerCfg := router.Config{
		Logger:         log,
		CronSecret:     cfg.Sync.CronSecret,
		CORS:           middleware.DefaultCORSConfig(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}
	routerCfg.CORS.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if cfg.Admin.AuthEnabled {
		routerCfg.AdminAuth = middleware.AdminAuth(auth.NewJWTService(cfg.JWT), cfg.Admin.Role, log)
	} else {
		log.Warn("Admin authentication disabled")
	}
	if otelProviders.Enabled() {
		routerCfg.TracingService = cfg.Telemetry.ServiceName
	}

	engine := router.NewEngine(routerCfg, router.Handlers{
		Sync:         handler.NewSyncHandler(syncService),
		Integrations: handler.NewIntegrationHandler(integrationService, bulkService, healthService),
		Providers:    handler.NewProviderHandler(providerService),
		Health:       handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
