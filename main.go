package main

import (
	"context"
	"log"
	"time"

	"court-booking/cmd"
	"court-booking/internal/data/repository"
	"court-booking/internal/jobs"
	"court-booking/internal/usecase"
	"court-booking/internal/wire"
	"court-booking/pkg/database"
	"court-booking/pkg/events"
	"court-booking/pkg/lock"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("lock_driver", config.Lock.Driver),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	locker, closeLocker, err := newLocker(config, logger)
	if err != nil {
		logger.Fatal("Failed to init slot locker", zap.Error(err))
	}
	defer closeLocker()

	publisher := newPublisher(config, logger)
	defer publisher.Close()

	service, err := usecase.NewService(repos, config, locker, publisher, usecase.AcceptingProcessor{}, logger)
	if err != nil {
		logger.Fatal("Failed to build services", zap.Error(err))
	}

	app := wire.Wiring(repos, service, config, logger)

	scheduler, err := jobs.NewAutoComplete(config.Jobs.AutoCompleteCron, service.Booking, time.Minute, logger)
	if err != nil {
		logger.Fatal("Failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		scheduler.Stop(ctx)
	}()

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

// newLocker picks the per-(court, date) lock: in-process for a single
// instance, Redis when several instances share the database.
func newLocker(config *utils.Config, logger *zap.Logger) (lock.Locker, func(), error) {
	if config.Lock.Driver != "redis" {
		return lock.NewKeyedMutex(config.Lock.Timeout), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := lock.NewRedisClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Redis slot lock connected", zap.String("addr", config.Redis.Addr))
	return lock.NewRedisLocker(client, config.Lock.TTL, config.Lock.Timeout, logger), func() { _ = client.Close() }, nil
}

// newPublisher falls back to logging events when no broker is configured or
// reachable.
func newPublisher(config *utils.Config, logger *zap.Logger) events.Publisher {
	if config.Events.AMQPURL == "" {
		return events.NewLogPublisher(logger)
	}

	pub, err := events.NewAMQPPublisher(config.Events.AMQPURL, config.Events.Exchange)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, events will only be logged", zap.Error(err))
		return events.NewLogPublisher(logger)
	}

	logger.Info("RabbitMQ publisher connected", zap.String("exchange", config.Events.Exchange))
	return pub
}
