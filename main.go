// main.go
package main

import (
	"context"
	"log"

	"smartstayz/cmd"
	"smartstayz/internal/data/repository"
	"smartstayz/internal/wire"
	"smartstayz/pkg/cache"
	"smartstayz/pkg/database"
	"smartstayz/pkg/utils"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	stripe.Key = config.Stripe.SecretKey

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Pick the calendar cache backend
	store := newCacheStore(config, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, store, config, logger)

	// Scheduled jobs: webhook catch-up and calendar warm-up
	scheduler := cron.New()
	scheduler.AddFunc("@every 5m", func() {
		app.Service.Reconcile.VerifyPendingPayments(context.Background())
	})
	scheduler.AddFunc("@hourly", func() {
		app.Service.Availability.RefreshAll(context.Background())
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

func newCacheStore(config *utils.Config, logger *zap.Logger) cache.Store {
	if config.Cache.Backend == "memory" {
		logger.Info("Using in-memory calendar cache")
		return cache.NewMemoryStore(config.Cache.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	logger.Info("Using Redis calendar cache", zap.String("addr", config.Redis.Addr))
	return cache.NewRedisStore(client, config.Cache.TTL, logger)
}
