package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	MailTransportKafka = "kafka"
	MailTransportSMTP  = "smtp"
	MailTransportNone  = "none"
)

type Config struct {
	ServerPort     string `toml:"server_port"`
	DatabaseDriver string `toml:"database_driver"`
	DatabaseDSN    string `toml:"database_dsn"`
	AccessSecret   string `toml:"access_secret"`
	BaseURL        string `toml:"base_url"`

	KafkaBroker   string `toml:"kafka_broker"`
	KafkaTopic    string `toml:"kafka_topic"`
	KafkaGroupID  string `toml:"kafka_group_id"`
	KafkaUsername string `toml:"kafka_username"`
	KafkaPassword string `toml:"kafka_password"`

	MailTransport string `toml:"mail_transport"`
	SMTPHost      string `toml:"smtp_host"`
	SMTPPort      int    `toml:"smtp_port"`
	SMTPUser      string `toml:"smtp_user"`
	SMTPPassword  string `toml:"smtp_password"`
	MailFrom      string `toml:"mail_from"`
	MailFromName  string `toml:"mail_from_name"`
	PortalURL     string `toml:"portal_url"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// ResendOnReapproval re-sends notification and email when a decision
	// repeats the current status.
	ResendOnReapproval bool `toml:"review_resend_on_reapproval"`
}

func Default() Config {
	return Config{
		ServerPort:     ":3000",
		DatabaseDriver: "postgres",
		BaseURL:        "http://localhost:5173",
		KafkaTopic:     "application-decisions",
		KafkaGroupID:   "mail-svc",
		MailTransport:  MailTransportKafka,
		SMTPHost:       "smtp.gmail.com",
		SMTPPort:       587,
		MailFromName:   "Impact Digital Academy",
		PortalURL:      "http://localhost:5173/login",
		LogLevel:       "info",
		LogFormat:      "auto",
	}
}

// LoadConfig reads .env (outside prod), then the optional TOML file named by
// CONFIG_FILE, then the process environment. Later sources win.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn(".env could not be loaded", "error", err)
		}
	}
	return Load(os.Getenv("CONFIG_FILE"), os.LookupEnv)
}

// Load builds a config from an optional TOML file and an environment lookup.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("SERVER_PORT", &c.ServerPort)
	str("DATABASE_DRIVER", &c.DatabaseDriver)
	str("DATABASE_DSN", &c.DatabaseDSN)
	str("ACCESS_SECRET", &c.AccessSecret)
	str("BASE_URL", &c.BaseURL)
	str("KAFKA_BROKER", &c.KafkaBroker)
	str("KAFKA_TOPIC", &c.KafkaTopic)
	str("KAFKA_GROUP_ID", &c.KafkaGroupID)
	str("KAFKA_USERNAME", &c.KafkaUsername)
	str("KAFKA_PASSWORD", &c.KafkaPassword)
	str("MAIL_TRANSPORT", &c.MailTransport)
	str("SMTP_HOST", &c.SMTPHost)
	str("SMTP_USER", &c.SMTPUser)
	str("SMTP_PASSWORD", &c.SMTPPassword)
	str("MAIL_FROM", &c.MailFrom)
	str("MAIL_FROM_NAME", &c.MailFromName)
	str("PORTAL_URL", &c.PortalURL)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup("SMTP_PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.SMTPPort = port
	}
	if v, ok := lookup("REVIEW_RESEND_ON_REAPPROVAL"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REVIEW_RESEND_ON_REAPPROVAL: %w", err)
		}
		c.ResendOnReapproval = b
	}
	return nil
}

func (c *Config) normalize() {
	c.DatabaseDriver = strings.ToLower(c.DatabaseDriver)
	c.MailTransport = strings.ToLower(c.MailTransport)
	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.ServerPort != "" && !strings.Contains(c.ServerPort, ":") {
		c.ServerPort = ":" + c.ServerPort
	}
}

// Validate checks what the API server needs. The mail worker only uses
// ValidateMailWorker.
func (c Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	if c.AccessSecret == "" {
		errs = append(errs, errors.New("ACCESS_SECRET is required"))
	}
	switch c.MailTransport {
	case MailTransportKafka:
		if c.KafkaBroker == "" {
			errs = append(errs, errors.New("KAFKA_BROKER is required when MAIL_TRANSPORT=kafka"))
		}
	case MailTransportSMTP:
		errs = append(errs, c.validateSMTP()...)
	case MailTransportNone:
	default:
		errs = append(errs, fmt.Errorf("MAIL_TRANSPORT must be kafka, smtp or none, got %q", c.MailTransport))
	}
	return errors.Join(errs...)
}

func (c Config) ValidateMailWorker() error {
	var errs []error
	if c.KafkaBroker == "" {
		errs = append(errs, errors.New("KAFKA_BROKER is required"))
	}
	if c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required"))
	}
	errs = append(errs, c.validateSMTP()...)
	return errors.Join(errs...)
}

func (c Config) validateSMTP() []error {
	var errs []error
	if c.SMTPHost == "" {
		errs = append(errs, errors.New("SMTP_HOST is required"))
	}
	if c.SMTPPort <= 0 {
		errs = append(errs, errors.New("SMTP_PORT must be positive"))
	}
	if c.SMTPUser == "" && c.MailFrom == "" {
		errs = append(errs, errors.New("SMTP_USER or MAIL_FROM is required"))
	}
	return errs
}
