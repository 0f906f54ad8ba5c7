package main

import (
	"log"

	"dailybrush/internal/bootstrap"
	"dailybrush/internal/config"
	"dailybrush/internal/server"
	"dailybrush/pkg/database"
	"dailybrush/pkg/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDevChallenge(db); err != nil {
			log.Fatalf("failed to seed development challenge: %v", err)
		}
	}

	// Redis is optional; rate limiting fails open without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	imageStorage, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("failed to initialize image storage: %v", err)
	}

	srv := server.NewServer(cfg, db, redisClient, imageStorage)
	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
