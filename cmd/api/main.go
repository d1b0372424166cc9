package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swiftride/dispatch/internal/api/handlers"
	"github.com/swiftride/dispatch/internal/api/routes"
	"github.com/swiftride/dispatch/internal/config"
	"github.com/swiftride/dispatch/internal/events"
	matchingsvc "github.com/swiftride/dispatch/internal/service/matching"
	phasesvc "github.com/swiftride/dispatch/internal/service/phase"
	"github.com/swiftride/dispatch/internal/service/pricing"
	requestsvc "github.com/swiftride/dispatch/internal/service/request"
	tripsvc "github.com/swiftride/dispatch/internal/service/trip"
	"github.com/swiftride/dispatch/pkg/cache"
	"github.com/swiftride/dispatch/pkg/database"
	"github.com/swiftride/dispatch/pkg/logger"
	"github.com/swiftride/dispatch/pkg/monitoring"
)

const (
	requestGeoKey = "requests:pickup_geo"
	driverGeoKey  = "drivers:geo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SwiftRide dispatch service",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp = &monitoring.NewRelicApp{}
	}
	defer nrApp.Shutdown(10 * time.Second)

	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer cache.Close(redisClient)

	appLogger.Info("Connected to Redis successfully")

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
		MaxIdle:  cfg.Database.MaxIdle,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer db.Close()

	appLogger.Info("Connected to PostgreSQL successfully")

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLogger)
	defer publisher.Close()

	requestGeo := cache.NewGeoIndex(redisClient, requestGeoKey)
	driverGeo := cache.NewGeoIndex(redisClient, driverGeoKey)

	pricingSvc := pricing.NewService(pricing.Config{
		BaseFare:     cfg.Pricing.BaseFare,
		PerKMRate:    cfg.Pricing.PerKMRate,
		MinPerKMRate: cfg.Pricing.MinPerKMRate,
	})
	requests := requestsvc.NewService(db, pricingSvc, requestGeo, publisher, appLogger)
	matching := matchingsvc.NewService(db, requestGeo, requests, publisher, nrApp, appLogger, matchingsvc.Config{
		DefaultRadiusMeters: cfg.Dispatch.DefaultRadiusMeters,
		MaxRadiusMeters:     cfg.Dispatch.MaxRadiusMeters,
		MaxCandidates:       cfg.Dispatch.MaxCandidates,
	})
	trips := tripsvc.NewService(db, driverGeo, publisher, nrApp, appLogger)
	phases := phasesvc.NewService(db, requests, cfg.Dispatch.CompletedWindow, appLogger)

	h := handlers.NewHandlers(requests, matching, trips, phases, appLogger)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	var nrApplication *monitoring.NewRelicApp
	if nrApp.IsEnabled() {
		nrApplication = nrApp
	}
	if nrApplication != nil {
		routes.SetupRoutes(router, h, nrApplication.Application)
	} else {
		routes.SetupRoutes(router, h, nil)
	}

	appLogger.Info("Routes configured successfully")

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
