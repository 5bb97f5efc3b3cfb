package main

import (
	"context"
	"flag"
	"os"

	"github.com/vvolodin/orders-service/internal/domain"
	"github.com/vvolodin/orders-service/internal/kafka"
	"github.com/vvolodin/orders-service/internal/logger"
)

// Демо-паблишер: шлёт сгенерированные заказы в топик приёма.
func main() {
	logger.Init()

	count := flag.Int("count", 1, "how many demo orders to publish")
	flag.Parse()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "orders"
	}

	prod := kafka.NewProducer(brokers, topic)
	defer prod.Close()

	ctx := context.Background()
	for i := 0; i < *count; i++ {
		o := domain.DemoOrder()
		if err := prod.PublishOrder(ctx, o); err != nil {
			logger.Warn("publish failed", "uid", o.OrderUID, "err", err)
			os.Exit(1)
		}
		logger.Info("published", "uid", o.OrderUID)
	}
}
