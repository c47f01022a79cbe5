package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/bookline/booking-api/internal/config"
	"github.com/bookline/booking-api/internal/repository/postgres"
	messagingredis "github.com/bookline/booking-api/pkg/messaging/redis"
	"github.com/bookline/booking-api/pkg/metrics"
	"github.com/bookline/booking-api/pkg/worker"
)

// workerConfig is read from the environment; the worker ships without a
// config file so it can run as a sidecar.
type workerConfig struct {
	DatabaseHost     string        `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int           `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseUser     string        `envconfig:"DATABASE_USER" default:"booking"`
	DatabasePassword string        `envconfig:"DATABASE_PASSWORD"`
	DatabaseName     string        `envconfig:"DATABASE_NAME" default:"booking"`
	DatabaseSSLMode  string        `envconfig:"DATABASE_SSLMODE" default:"disable"`
	RedisURL         string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	BatchSize        int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval     time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	Retention        time.Duration `envconfig:"OUTBOX_RETENTION" default:"168h"`
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var cfg workerConfig
	if err := envconfig.Process("booking", &cfg); err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Name:     cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	brokerLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	broker, err := messagingredis.NewRedisBroker(messagingredis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &brokerLog)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer broker.Close()

	m := metrics.NewMetrics("booking", "worker")
	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		log,
		m,
		worker.OutboxConfig{
			BatchSize: cfg.BatchSize,
			Interval:  cfg.PollInterval,
			Retention: cfg.Retention,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("worker shutting down")
	cancel()
}
