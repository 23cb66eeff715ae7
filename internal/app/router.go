package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"scooter/internal/handler"
	"scooter/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ZoneHandler      *handler.ZoneHandler
	RuleHandler      *handler.RuleHandler
	AnalyticsHandler *handler.AnalyticsHandler
	EventHandler     *handler.EventHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Zone routes. Overrides mutate live pricing, so they require an
		// authorized operator role; telemetry ingest is fleet-internal.
		zones := v1.Group("/zones")
		{
			zones.GET("", deps.ZoneHandler.GetAll)
			zones.GET("/:id", deps.ZoneHandler.GetZone)
			zones.POST("/:id/override", middleware.RequirePricingRole(), deps.ZoneHandler.SetOverride)
			zones.DELETE("/:id/override", middleware.RequirePricingRole(), deps.ZoneHandler.ClearOverride)
			zones.POST("/:id/telemetry", deps.ZoneHandler.IngestTelemetry)
		}

		// Rule routes.
		rules := v1.Group("/rules")
		{
			rules.GET("", deps.RuleHandler.GetAll)
			rules.GET("/:id", deps.RuleHandler.GetRule)
			rules.POST("", middleware.RequirePricingRole(), deps.RuleHandler.CreateRule)
			rules.PATCH("/:id", middleware.RequirePricingRole(), deps.RuleHandler.UpdateRule)
			rules.DELETE("/:id", middleware.RequirePricingRole(), deps.RuleHandler.DeleteRule)
		}

		// Analytics routes.
		v1.GET("/analytics", deps.AnalyticsHandler.GetSummary)

		// Demand event routes.
		v1.GET("/events", deps.EventHandler.GetAll)
	}

	return router
}
