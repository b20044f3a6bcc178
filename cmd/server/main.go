package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtsight/nba-dashboard/internal/api"
	"github.com/courtsight/nba-dashboard/internal/api/middleware"
	"github.com/courtsight/nba-dashboard/internal/providers"
	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/config"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	hub := services.NewProjectionHub(logger)
	go hub.Run()

	gameLogService := services.NewGameLogService(db, logger)
	cacheTTL := time.Duration(cfg.ProjectionCacheTTL) * time.Second
	projectionService := services.NewProjectionService(db, cacheService, gameLogService, hub, cacheTTL, logger)
	valuePlayService := services.NewValuePlayService(db, cacheService, projectionService, cacheTTL, logger)

	// SMS alerts
	var sender services.SMSSender
	if cfg.EnableSMSAlerts && cfg.SMSProvider == "twilio" {
		rateLimiter := services.NewSMSRateLimiter(cfg.SMSRateLimit, time.Hour)
		sender = services.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, rateLimiter, logger)
	} else {
		sender = services.NewMockSMSSender(logger)
	}
	alertService := services.NewAlertService(db, sender, logger)

	// Data providers
	statsClient := providers.NewNBAStatsClient(
		cfg.NBAStatsBaseURL,
		cfg.CurrentSeason,
		cfg.NBAStatsRateLimit,
		cfg.ExternalAPITimeout,
		cfg.CircuitBreakerThreshold,
		logger,
	)
	injuryClient := providers.NewInjuryFeedClient(
		cfg.InjuryReportBaseURL,
		cfg.ExternalAPITimeout,
		cfg.CircuitBreakerThreshold,
		logger,
	)

	// Parse fetch interval
	fetchInterval, err := time.ParseDuration(cfg.DataFetchInterval)
	if err != nil {
		logrus.Warnf("Invalid fetch interval, using default 2h: %v", err)
		fetchInterval = 2 * time.Hour
	}

	// Scheduled ingest
	dataFetcher := services.NewDataFetcherService(
		db, cacheService, statsClient, injuryClient,
		projectionService, alertService, hub, logger, fetchInterval,
	)
	if cfg.EnableBackgroundJobs {
		if err := dataFetcher.Start(!cfg.SkipInitialDataFetch); err != nil {
			logrus.Errorf("Failed to start data fetcher: %v", err)
		}
		defer dataFetcher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Basic liveness at root level
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, api.Deps{
		DB:          db,
		Redis:       redisClient,
		Cache:       cacheService,
		Hub:         hub,
		Projections: projectionService,
		GameLogs:    gameLogService,
		ValuePlays:  valuePlayService,
		Alerts:      alertService,
		Fetcher:     dataFetcher,
		Config:      cfg,
		Logger:      logger,
	})

	// WebSocket endpoint at root level
	router.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), hub.HandleConnection)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
