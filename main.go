package main

import (
	"context"
	"log"

	"rental-marketplace/cmd"
	"rental-marketplace/internal/data/repository"
	"rental-marketplace/internal/jobs"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/internal/wire"
	"rental-marketplace/pkg/broker"
	"rental-marketplace/pkg/cache"
	"rental-marketplace/pkg/database"
	"rental-marketplace/pkg/payment"
	"rental-marketplace/pkg/utils"

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

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	responseCache := newCache(config, logger)
	if closer, ok := responseCache.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	publisher := newPublisher(config, logger)
	defer publisher.Close()

	app := wire.Wiring(usecase.Deps{
		Repo:      repository.NewRepository(db, logger),
		Config:    config,
		Cache:     responseCache,
		Publisher: publisher,
		Payments:  payment.NewSimulatedRegistry(logger),
		Log:       logger,
	})

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.ScheduleStayCompletion(config.Jobs.StayCompletionSchedule, app.Service.Booking); err != nil {
		logger.Fatal("Failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	// Start server
	err = cmd.APIServer(app.Router, config.App.Port, logger, func(ctx context.Context) {
		scheduler.Stop(ctx)
	})
	if err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}

// newCache connects to redis when configured and falls back to no caching.
func newCache(config *utils.Config, logger *zap.Logger) cache.Cache {
	if config.Redis.Addr == "" {
		logger.Info("Redis not configured, response caching disabled")
		return cache.Nop{}
	}

	c, err := cache.NewRedis(config.Redis.Addr, config.Redis.Password, config.Redis.DB, config.App.Name)
	if err != nil {
		logger.Warn("Redis unavailable, response caching disabled", zap.Error(err))
		return cache.Nop{}
	}

	logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	return c
}

// newPublisher connects to RabbitMQ when configured and falls back to
// dropping events.
func newPublisher(config *utils.Config, logger *zap.Logger) broker.Publisher {
	if config.AMQP.URL == "" {
		logger.Info("AMQP not configured, domain events disabled")
		return broker.Nop{}
	}

	p, err := broker.NewRabbitMQ(config.AMQP.URL, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, domain events disabled", zap.Error(err))
		return broker.Nop{}
	}

	logger.Info("RabbitMQ connected")
	return p
}
