package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/innio31/Impact-Digital-Academy-sub022/config"
	"github.com/innio31/Impact-Digital-Academy-sub022/infra/queue"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/api"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/logging"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/mail"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("service", "mail-svc")
	slog.SetDefault(log)

	if err := cfg.ValidateMailWorker(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("mail service starting",
		"kafka_broker", cfg.KafkaBroker,
		"topic", cfg.KafkaTopic,
		"group_id", cfg.KafkaGroupID,
	)

	sender := mail.NewSMTPSender(api.SMTPConfig(cfg), log)
	handler := mail.NewHandler(sender, log)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("listening for decision events")
	if err := consumer.Listen(ctx); err != nil {
		log.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
