package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"blackjack-table-backend/internal/config"
	"blackjack-table-backend/internal/handlers"
	"blackjack-table-backend/internal/middleware"
	"blackjack-table-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var store services.SessionStore
	if cfg.RedisAddr != "" {
		redisStore, err := services.NewRedisSessionStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Printf("Sessions backed by Redis at %s", cfg.RedisAddr)
	} else {
		store = services.NewMemorySessionStore(cfg.SessionTTL)
		log.Println("Sessions backed by process memory")
	}

	var ledger services.PlayerLedger
	if cfg.DatabaseURL != "" {
		pgLedger, err := services.NewPostgresLedger(context.Background(), cfg.DatabaseURL, cfg.DefaultBankrollCents)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgLedger.Close()
		ledger = pgLedger
		log.Println("Player ledger backed by Postgres")
	} else {
		ledger = services.NewNoopLedger(cfg.DefaultBankrollCents)
		log.Println("No DATABASE_URL set, stats and history disabled")
	}

	persister := services.NewPersister(256)
	defer persister.Close()

	jwtService := services.NewJWTService(cfg)

	gameEngine := services.NewGameEngine(store, ledger, persister, cfg.Rules(), cfg.DefaultBankrollCents)

	wsHandler := handlers.NewWebSocketHandler(gameEngine)
	gameEngine.SetBroadcaster(wsHandler)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if removed := gameEngine.CleanupStaleSessions(); removed > 0 {
				log.Printf("Swept %d stale sessions", removed)
			}
		}
	}()

	gameHandler := handlers.NewGameHandler(gameEngine)
	playerHandler := handlers.NewPlayerHandler(ledger, gameEngine)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api")
	api.Use(middleware.IdentityMiddleware(jwtService, cfg.Env == "production"))
	{
		api.GET("/me", playerHandler.GetCurrentPlayer)
		api.GET("/stats", playerHandler.GetStats)
		api.GET("/leaderboard", playerHandler.GetLeaderboard)

		api.GET("/ws", wsHandler.HandleWebSocket)

		game := api.Group("/game")
		{
			game.POST("/deal", gameHandler.Deal)
			game.POST("/action", gameHandler.Action)
			game.GET("/state", gameHandler.State)
			game.POST("/reset", gameHandler.Reset)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
