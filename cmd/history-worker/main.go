// Package main 检索历史异步落库执行器入口（history-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/messaging"
	"streamguide-api/internal/infrastructure/persistence/postgres"
	"streamguide-api/internal/infrastructure/persistence/redis"
	"streamguide-api/pkg/logger"
	"streamguide-api/pkg/metrics"
	"streamguide-api/pkg/tracer"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "history-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to init postgres", err)
	}
	defer func() { _ = pgClient.Close() }()

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to init redis", err)
	}
	defer func() { _ = redisClient.Close() }()

	recordRepo := postgres.NewSearchRecordRepository(pgClient)

	consumer := messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:       messaging.StreamSearchHistory,
		Group:        messaging.ConsumerGroupHistoryWriter,
		ConsumerName: hostnameConsumerName(),
		BlockTimeout: cfg.Messaging.RedisStream.BlockTimeout,
		RetryLimit:   cfg.Messaging.RedisStream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
			Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
		},
	})

	consumer.RegisterHandler(messaging.MessageTypeSearchEvent, func(ctx context.Context, msg *messaging.Message) error {
		var payload messaging.SearchEventMessage
		if err := msg.UnmarshalPayload(&payload); err != nil {
			metrics.HistoryEventsConsumed.WithLabelValues("malformed").Inc()
			return err
		}

		// 匿名或已退出历史记录的用户不落库
		if payload.UserID == "" {
			metrics.HistoryEventsConsumed.WithLabelValues("skipped").Inc()
			return nil
		}

		record := &entity.SearchRecord{
			ID:          uuid.NewString(),
			UserID:      payload.UserID,
			Query:       payload.Query,
			Intent:      entity.SearchIntent(payload.Intent),
			Confidence:  payload.Confidence,
			ResultCount: payload.ResultCount,
			AIPowered:   payload.AIPowered,
			CreatedAt:   time.Unix(payload.SearchedAt, 0),
		}

		if err := recordRepo.Create(ctx, record); err != nil {
			metrics.HistoryEventsConsumed.WithLabelValues("error").Inc()
			return err
		}

		metrics.HistoryEventsConsumed.WithLabelValues("ok").Inc()
		return nil
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}

	log := logger.FromContext(ctx)
	log.Info("history-worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("history-worker shutting down")
	consumer.Stop()
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
