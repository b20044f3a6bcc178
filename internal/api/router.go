package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtsight/nba-dashboard/internal/api/handlers"
	"github.com/courtsight/nba-dashboard/internal/api/middleware"
	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/config"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	DB          *database.DB
	Redis       *redis.Client
	Cache       *services.CacheService
	Hub         *services.ProjectionHub
	Projections *services.ProjectionService
	GameLogs    *services.GameLogService
	ValuePlays  *services.ValuePlayService
	Alerts      *services.AlertService
	Fetcher     *services.DataFetcherService
	Config      *config.Config
	Logger      *logrus.Logger
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Deps) {
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)
	gamesHandler := handlers.NewGamesHandler(deps.DB, deps.Cache)
	projectionsHandler := handlers.NewProjectionsHandler(deps.Projections)
	overridesHandler := handlers.NewOverridesHandler(deps.DB, deps.Projections)
	playersHandler := handlers.NewPlayersHandler(deps.DB, deps.Cache, deps.GameLogs)
	injuriesHandler := handlers.NewInjuriesHandler(deps.DB, deps.Cache)
	valuePlaysHandler := handlers.NewValuePlaysHandler(deps.ValuePlays)
	alertsHandler := handlers.NewAlertsHandler(deps.Alerts)
	ingestHandler := handlers.NewIngestHandler(deps.Fetcher)

	// Health endpoints
	group.GET("/health", healthHandler.GetHealth)
	group.GET("/ready", healthHandler.GetReady)

	// Game and projection endpoints
	group.GET("/games", gamesHandler.ListGames)
	group.GET("/games/:id", gamesHandler.GetGame)
	group.GET("/games/:id/projections", projectionsHandler.GetProjections)
	group.POST("/games/:id/projections/recompute", projectionsHandler.Recompute)
	group.GET("/games/:id/value-plays", valuePlaysHandler.GetValuePlays)

	// Override endpoints (optional auth during development)
	overrideGroup := group.Group("/games/:id/overrides")
	overrideGroup.Use(middleware.OptionalAuth(deps.Config.JWTSecret))
	{
		overrideGroup.PUT("/:playerId", overridesHandler.SetOverride)
		overrideGroup.DELETE("/:playerId", overridesHandler.DeleteOverride)
	}

	// Player endpoints
	group.GET("/players/:id", playersHandler.GetPlayer)
	group.GET("/players/:id/gamelogs", playersHandler.GetGameLogs)

	// Injury report
	group.GET("/injuries", injuriesHandler.ListInjuries)

	// Alert subscriptions
	group.POST("/alerts/subscriptions", alertsHandler.Subscribe)
	group.GET("/alerts/subscriptions", alertsHandler.ListSubscriptions)
	group.DELETE("/alerts/subscriptions/:id", alertsHandler.Unsubscribe)

	// Authenticated routes
	auth := group.Group("")
	auth.Use(middleware.AuthRequired(deps.Config.JWTSecret))
	{
		auth.POST("/ingest/run", ingestHandler.Run)
		auth.POST("/games/:id/prop-lines", valuePlaysHandler.UpsertLine)
	}
}
