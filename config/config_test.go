package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/innio31/Impact-Digital-Academy-sub022/config"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("", envMap(nil))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := config.Default()
	if cfg.ServerPort != want.ServerPort || cfg.MailTransport != config.MailTransportKafka {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.KafkaTopic != "application-decisions" || cfg.SMTPPort != 587 {
		t.Fatalf("unexpected defaults: topic=%q port=%d", cfg.KafkaTopic, cfg.SMTPPort)
	}
	if cfg.ResendOnReapproval {
		t.Fatal("expected resend on re-approval to be off by default")
	}
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "academy.toml")
	content := `
server_port = "8080"
database_driver = "SQLite"
database_dsn = "file.db"
mail_transport = "smtp"
smtp_host = "mail.academy.test"
smtp_port = 2525
review_resend_on_reapproval = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path, envMap(map[string]string{
		"SMTP_PORT":      "465",
		"ACCESS_SECRET":  "  s3cret ",
		"DATABASE_DSN":   "",
		"MAIL_FROM_NAME": "Admissions",
	}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerPort != ":8080" {
		t.Fatalf("server port = %q, want :8080", cfg.ServerPort)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.DatabaseDSN != "file.db" {
		t.Fatalf("database = %q %q", cfg.DatabaseDriver, cfg.DatabaseDSN)
	}
	if cfg.SMTPHost != "mail.academy.test" || cfg.SMTPPort != 465 {
		t.Fatalf("smtp = %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.AccessSecret != "s3cret" || cfg.MailFromName != "Admissions" {
		t.Fatalf("env not applied: secret=%q from=%q", cfg.AccessSecret, cfg.MailFromName)
	}
	if !cfg.ResendOnReapproval {
		t.Fatal("expected resend flag from file")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	if _, err := config.Load("", envMap(map[string]string{"SMTP_PORT": "smtp"})); err == nil {
		t.Fatal("expected error for non-numeric SMTP_PORT")
	}
	if _, err := config.Load("", envMap(map[string]string{"REVIEW_RESEND_ON_REAPPROVAL": "maybe"})); err == nil {
		t.Fatal("expected error for non-boolean resend flag")
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"), envMap(nil)); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors for empty config")
	}
	for _, want := range []string{"DATABASE_DSN", "ACCESS_SECRET", "KAFKA_BROKER"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("validation error missing %s: %v", want, err)
		}
	}

	cfg.DatabaseDSN = "postgres://localhost/academy"
	cfg.AccessSecret = "secret"
	cfg.MailTransport = config.MailTransportNone
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.MailTransport = "carrier-pigeon"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "MAIL_TRANSPORT") {
		t.Fatalf("expected MAIL_TRANSPORT error, got %v", err)
	}
}

func TestValidateMailWorker(t *testing.T) {
	cfg := config.Default()
	if err := cfg.ValidateMailWorker(); err == nil || !strings.Contains(err.Error(), "KAFKA_BROKER") {
		t.Fatalf("expected broker error, got %v", err)
	}

	cfg.KafkaBroker = "localhost:9092"
	cfg.SMTPUser = "noreply@academy.test"
	if err := cfg.ValidateMailWorker(); err != nil {
		t.Fatalf("expected valid mail worker config, got %v", err)
	}
}
