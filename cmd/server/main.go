package main // Entry point package

import (
	"context" // bounds the startup migration
	"log"     // logging library
	"os"      // environment flags
	"time"    // migration timeout

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/ai-assistant-api/internal/analytics"
	"github.com/iliyamo/ai-assistant-api/internal/assistant"
	"github.com/iliyamo/ai-assistant-api/internal/config"
	"github.com/iliyamo/ai-assistant-api/internal/database"
	"github.com/iliyamo/ai-assistant-api/internal/handler"
	"github.com/iliyamo/ai-assistant-api/internal/queue"
	"github.com/iliyamo/ai-assistant-api/internal/repository"
	"github.com/iliyamo/ai-assistant-api/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// Repositories and services.
	users := repository.NewUserRepo(db, cfg.HashIterations)
	sessions := repository.NewSessionRepo(db)
	history := repository.NewHistoryRepo(db)
	feedback := repository.NewFeedbackRepo(db)
	stats := analytics.NewAggregator(history, feedback)
	models := assistant.NewManager()

	// Optional Redis for rate limiting and response caching; nil
	// disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	publishEvents := os.Getenv("EXCHANGE_EVENTS_ENABLED") == "true"
	if os.Getenv("EXCHANGE_CONSUMER_ENABLED") == "true" {
		go func() {
			if err := queue.StartExchangeConsumer(); err != nil {
				log.Printf("exchange consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, sessions), cfg.JWTSecret, rdb)
	router.RegisterChat(e, handler.NewChatHandler(models, history, feedback, stats, publishEvents), cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBPath)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
