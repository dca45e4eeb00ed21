package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/config"
	"github.com/tourify/tourify/internal/database"
	"github.com/tourify/tourify/internal/handler"
	"github.com/tourify/tourify/internal/middleware"
	"github.com/tourify/tourify/internal/queue"
	"github.com/tourify/tourify/internal/repository"
	"github.com/tourify/tourify/internal/router"
	"github.com/tourify/tourify/internal/storage"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	e := echo.New()

	// Redis backs the rate limiter and the public response cache. Both
	// degrade to pass-through when Redis is unreachable at startup.
	rdb := config.NewRedisClient()
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	} else {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	tourRepo := repository.NewTourRepo(db)
	stepRepo := repository.NewStepRepo(db)
	shareRepo := repository.NewShareRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	tours := handler.NewTourHandler(tourRepo, stepRepo, shareRepo, storage.NewMediaStore(cfg), cfg.BcryptCost)
	auth := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	public := &handler.PublicHandler{TourRepo: tourRepo, ShareRepo: shareRepo}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterTours(e, tours, cfg.JWTSecret)
	if rdb != nil {
		router.RegisterPublic(e, public, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	} else {
		router.RegisterPublic(e, public)
	}

	// Consume publish events in the background; the consumer reconnects on
	// its own and must never take the API down with it.
	go func() {
		if err := queue.StartPublishConsumer(); err != nil {
			log.Printf("publish consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
