package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vvolodin/orders-service/internal/application"
	"github.com/vvolodin/orders-service/internal/domain"
	"github.com/vvolodin/orders-service/internal/logger"
)

type ConsumerConfig struct {
	Brokers string
	Topic   string
	GroupID string
}

// StartConsumer читает заказы из топика и проводит их через тот же конвейер,
// что и HTTP: битый JSON и дубликаты коммитим и пропускаем, ошибку хранилища
// не коммитим и пробуем снова (at-least-once).
func StartConsumer(ctx context.Context, svc *application.OrdersService, cfg ConsumerConfig) (*kafka.Reader, error) {
	brokers := strings.Split(cfg.Brokers, ",")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         brokers,
		GroupID:         cfg.GroupID,
		Topic:           cfg.Topic,
		MinBytes:        1,
		MaxBytes:        10e6,
		CommitInterval:  0,
		StartOffset:     kafka.FirstOffset,
		ReadLagInterval: -1,
	})

	logger.Info("kafka consumer starting", "brokers", cfg.Brokers, "topic", cfg.Topic, "group", cfg.GroupID)

	go func() {
		defer r.Close()

		backoff := time.Millisecond * 300
		for {
			m, err := r.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("kafka fetch error", "err", err)
				time.Sleep(backoff)
				continue
			}

			var o domain.Order
			if err = json.Unmarshal(m.Value, &o); err != nil {
				logger.Warn("kafka invalid json, skip and commit", "err", err)
				_ = r.CommitMessages(ctx, m)
				continue
			}

			if err = svc.Submit(ctx, &o); err != nil {
				if errors.Is(err, application.ErrOrderAlreadyExists) || errors.Is(err, domain.ErrInvalidOrder) {
					logger.Info("kafka message rejected, skip and commit", "uid", o.OrderUID, "err", err)
					_ = r.CommitMessages(ctx, m)
					continue
				}
				logger.Warn("kafka add order fail, will retry", "uid", o.OrderUID, "err", err)
				time.Sleep(backoff)
				continue
			}

			if err := r.CommitMessages(ctx, m); err != nil {
				logger.Warn("kafka commit failed", "err", err)
			} else {
				logger.Info("kafka committed", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "uid", o.OrderUID)
			}
		}
	}()
	return r, nil
}
