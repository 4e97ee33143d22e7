package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"time"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/interfaces"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// fetcher is the subset of *kafka.Reader the read loop uses.
type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConsumer struct {
	Reader      fetcher
	Handler     interfaces.ConsumerHandler
	ServiceName string
	log         *slog.Logger
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler, logger *slog.Logger) *KafkaConsumer {
	if logger == nil {
		logger = slog.Default()
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
		dialer.TLS = &tls.Config{}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		Dialer:   dialer,
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "Mail Service",
		log:         logger,
	}
}

// Listen reads until ctx is cancelled. A message is committed after the
// handler ran, whether or not it succeeded; failed emails are logged.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	log := kc.log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("service", kc.ServiceName)

	for {
		msg, err := kc.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return kc.Reader.Close()
			}
			log.Error("read error", "error", err)
			select {
			case <-ctx.Done():
				return kc.Reader.Close()
			case <-time.After(time.Second):
			}
			continue
		}

		log.Debug("message received", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)

		if err := kc.Handler.HandleMessage(string(msg.Value)); err != nil {
			log.Error("handler error", "offset", msg.Offset, "error", err)
		}
		if err := kc.Reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error("commit error", "offset", msg.Offset, "error", err)
		}
	}
}
