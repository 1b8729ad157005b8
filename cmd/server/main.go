package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/huayu/api/internal/cache"
	"github.com/huayu/api/internal/chat"
	"github.com/huayu/api/internal/config"
	"github.com/huayu/api/internal/database"
	"github.com/huayu/api/internal/dict"
	"github.com/huayu/api/internal/handler"
	"github.com/huayu/api/internal/llm"
	"github.com/huayu/api/internal/middleware"
	"github.com/huayu/api/internal/scheduler"
	"github.com/huayu/api/internal/segment"
	"github.com/huayu/api/internal/store"
	"github.com/huayu/api/internal/validator"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	st := store.New(db)

	// Redis cache is optional (fail-open).
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: failed to connect to Redis: %v", err)
			redisCache = nil
		}
	}

	seg, err := segment.New()
	if err != nil {
		log.Printf("Warning: segmentation dictionary unavailable, running degraded: %v", err)
	}

	cedict := dict.NewCedict(cfg.DataDir, cfg.CedictURL)
	freq := dict.NewFrequency(cfg.DataDir)
	dictService := dict.NewService(st, redisCache, cedict, freq)
	wordValidator := validator.NewWordValidator()

	chatter := llm.NewClient(cfg.GroqAPIKey, cfg.GroqAPIURL, cfg.GroqModel)
	orchestrator := chat.New(st, chatter, seg, cfg)

	chatHandler := handler.NewChatHandler(orchestrator)
	wordHandler := handler.NewWordHandler(st, dictService, wordValidator)
	vocabularyHandler := handler.NewVocabularyHandler(st)
	usageHandler := handler.NewUsageHandler(st)
	conversationHandler := handler.NewConversationHandler(st)

	var backfill *scheduler.Backfill
	if cfg.SchedulerEnabled {
		backfill = scheduler.NewBackfill(st, dictService, cfg.SchedulerInterval)
		backfill.Start()
	}

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/scheduler/status", func(c *gin.Context) {
		if backfill != nil {
			c.JSON(200, backfill.Status())
		} else {
			c.JSON(200, gin.H{"enabled": false, "message": "Scheduler is disabled"})
		}
	})

	api := r.Group("/api")
	{
		api.POST("/chat", chatHandler.Handle)

		api.GET("/words", wordHandler.List)
		api.POST("/words", wordHandler.Lookup)
		api.GET("/words/:id", wordHandler.Get)

		api.GET("/vocabulary", vocabularyHandler.Get)
		api.POST("/usage", usageHandler.Record)
		api.GET("/conversations/current", conversationHandler.Current)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("API server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
