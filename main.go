package main

import (
	"context"
	"net/http"

	"option-master/internal/api"
	"option-master/internal/config"
	"option-master/internal/services/chain"
	"option-master/internal/services/nse"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	if cfg.Environment == "production" {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Initialize services
	client := nse.NewClient(cfg.MinFetchInterval, cfg.UpstreamTimeout)
	chainSvc := chain.NewService(client, chain.Options{
		CacheTTL:           cfg.CacheTTL,
		IncludeAnalytics:   cfg.IncludeAnalytics,
		EnforceMarketHours: cfg.EnforceMarketHours,
	})

	// Initialize Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, chainSvc)

	// Live chain stream
	ctx := context.Background()
	hub := api.NewHub()
	go hub.Run(ctx)
	go api.RunChainStream(ctx, hub, chainSvc, cfg.DefaultSymbol, cfg.StreamInterval)
	r.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	// Start server
	logrus.Infof("Server starting on port %s", cfg.Port)
	logrus.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
