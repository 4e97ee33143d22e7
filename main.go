package main

import (
	"log/slog"
	"os"

	"github.com/innio31/Impact-Digital-Academy-sub022/config"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/api"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := api.StartServer(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
