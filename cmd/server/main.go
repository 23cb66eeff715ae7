package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"scooter/internal/app"
	"scooter/internal/config"
	"scooter/internal/handler"
	internalRedis "scooter/internal/redis"
	"scooter/internal/repository/postgres"
	"scooter/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
			nrApp = nil
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	// Wire dependencies.
	server, orchestrator, zoneService := wireServer(db, redisClient, nrApp, cfg, logger)

	// Seed zones. A zone store failure here is fatal: the engine must not
	// start with an undefined zone set.
	if err := zoneService.Bootstrap(ctx, bootstrapZones(cfg), time.Now().UTC()); err != nil {
		logger.Fatal("failed to bootstrap zones", zap.Error(err))
	}

	// Run the pricing loop until shutdown.
	runCtx, stopOrchestrator := context.WithCancel(context.Background())
	go orchestrator.Run(runCtx)

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	stopOrchestrator()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server with the
// pricing orchestrator that drives it.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	cfg *config.Config,
	logger *zap.Logger,
) (*http.Server, *service.Orchestrator, *service.ZoneService) {
	// Initialize Redis stores.
	unitStore := internalRedis.NewUnitStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	weatherCache := internalRedis.NewWeatherCache(redisClient)
	snapshotCache := internalRedis.NewSnapshotCache(redisClient)

	// Initialize repositories.
	zoneRepo := postgres.NewZoneRepository(db)
	ruleRepo := postgres.NewRuleRepository(db)
	sampleRepo := postgres.NewSampleRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	// Initialize services.
	zoneService := service.NewZoneService(zoneRepo, sampleRepo, logger)
	ruleService := service.NewRuleService(ruleRepo)
	eventService := service.NewEventService(eventRepo)
	overrides := service.NewOverrideManager(logger)
	engine := service.NewRuleEngine()
	weatherService := service.NewWeatherService(service.NewSimulatedWeatherFeed(), weatherCache, logger)
	telemetry := service.NewFleetTelemetry(unitStore, logger)
	analyticsService := service.NewAnalyticsService(sampleRepo, snapshotCache, logger)

	orchestrator := service.NewOrchestrator(
		zoneService,
		ruleService,
		eventService,
		engine,
		overrides,
		weatherService,
		telemetry,
		lockStore,
		logger,
		service.OrchestratorConfig{
			Interval:      cfg.Engine.TickInterval,
			ZoneTimeout:   cfg.Engine.ZoneTimeout,
			MaxConcurrent: cfg.Engine.MaxConcurrent,
		},
	)

	// Initialize handlers.
	zoneHandler := handler.NewZoneHandler(zoneService, overrides, unitStore)
	ruleHandler := handler.NewRuleHandler(ruleService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	eventHandler := handler.NewEventHandler(eventService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ZoneHandler:      zoneHandler,
		RuleHandler:      ruleHandler,
		AnalyticsHandler: analyticsHandler,
		EventHandler:     eventHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	})

	// Create HTTP server.
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return server, orchestrator, zoneService
}

// bootstrapZones maps configured zones into seed definitions, falling back to
// a small built-in city layout when none are configured.
func bootstrapZones(cfg *config.Config) []service.ZoneDefinition {
	if len(cfg.Zones) == 0 {
		return defaultZones()
	}
	defs := make([]service.ZoneDefinition, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		defs = append(defs, service.ZoneDefinition{
			ID:            z.ID,
			Name:          z.Name,
			BasePrice:     z.BasePrice,
			CenterLat:     z.CenterLat,
			CenterLng:     z.CenterLng,
			RadiusKm:      z.RadiusKm,
			MaxMultiplier: z.MaxMultiplier,
		})
	}
	return defs
}

func defaultZones() []service.ZoneDefinition {
	return []service.ZoneDefinition{
		{ID: "downtown", Name: "Downtown Core", BasePrice: 8.00, CenterLat: 37.7749, CenterLng: -122.4194, RadiusKm: 2.0, MaxMultiplier: 3.0},
		{ID: "mission", Name: "Mission District", BasePrice: 6.50, CenterLat: 37.7599, CenterLng: -122.4148, RadiusKm: 2.5, MaxMultiplier: 2.5},
		{ID: "marina", Name: "Marina Waterfront", BasePrice: 7.00, CenterLat: 37.8037, CenterLng: -122.4368, RadiusKm: 1.8, MaxMultiplier: 2.5},
		{ID: "sunset", Name: "Outer Sunset", BasePrice: 5.00, CenterLat: 37.7552, CenterLng: -122.4946, RadiusKm: 3.5, MaxMultiplier: 2.0},
	}
}
