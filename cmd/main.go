package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/vvolodin/orders-service/internal/application"
	"github.com/vvolodin/orders-service/internal/cache"
	"github.com/vvolodin/orders-service/internal/config"
	"github.com/vvolodin/orders-service/internal/kafka"
	"github.com/vvolodin/orders-service/internal/logger"
	"github.com/vvolodin/orders-service/internal/migrate"
	"github.com/vvolodin/orders-service/internal/presentation"
	"github.com/vvolodin/orders-service/internal/repository"
	"github.com/vvolodin/orders-service/internal/schema"
)

func main() {
	logger.Init()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DB_STRING)
	if err != nil {
		logger.Warn("pgxpool new failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// база может подниматься дольше сервиса, пингуем с бэкоффом
	b := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		return retry.RetryableError(pool.Ping(ctx))
	})
	if err != nil {
		logger.Warn("db ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("db connected")

	if cfg.DB_MIGRATE {
		if err := migrate.Up(cfg.DB_STRING); err != nil {
			logger.Warn("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if err := schema.Ensure(ctx, pool); err != nil {
		logger.Warn("schema ensure failed", "err", err)
		os.Exit(1)
	}

	// Wiring
	repo := repository.NewOrderRepository(pool)
	c := cache.New()
	svc := application.NewOrdersService(repo, c)

	// Восстановить кеш из БД
	if err := svc.RestoreCache(ctx); err != nil {
		logger.Warn("restore cache failed", "err", err)
		os.Exit(1)
	}

	// Kafka consumer (читает из cfg.KAFKA_TOPIC, сохраняет в БД + кеш)
	if cfg.KAFKA_BROKERS != "" {
		_, _ = kafka.StartConsumer(
			ctx,
			svc,
			kafka.ConsumerConfig{
				Brokers: cfg.KAFKA_BROKERS,
				Topic:   cfg.KAFKA_TOPIC,
				GroupID: cfg.KAFKA_GROUP_ID,
			},
		)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API
	h := presentation.NewOrdersHandler(svc)
	h.Register(r)

	// STATIC (web/index.html)
	presentation.MountStatic(r)

	addr := ":" + cfg.HTTP_PORT
	logger.Info("starting http", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Warn("http server crashed", "err", err)
		os.Exit(1)
	}
}
