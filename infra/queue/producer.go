package queue

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const publishTimeout = 5 * time.Second

type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewProducer returns nil when no broker is configured; a nil *Producer skips
// every publish.
func NewProducer(broker, topic, username, password string, logger *slog.Logger) *Producer {
	if broker == "" || topic == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &kafka.Transport{}
	if username != "" {
		transport.SASL = plain.Mechanism{
			Username: username,
			Password: password,
		}
		transport.TLS = &tls.Config{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
		log: logger,
	}
}

func (p *Producer) PublishMessage(ctx context.Context, key, value []byte) error {
	if p == nil || p.writer == nil {
		slog.Warn("kafka producer not configured, skip publish")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
