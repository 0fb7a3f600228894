package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ELECTION_ID", "")
	t.Setenv("ELECTION_OWNER", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	t.Setenv("AUTO_MIGRATE", "")
	t.Setenv("OUTBOX_BATCH_SIZE", "")
	t.Setenv("OUTBOX_POLL_INTERVAL", "")
	t.Setenv("ENABLE_NOTIFICATION_AUDIT_CONSUMER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.ServiceName != "votingregistry" || cfg.HTTPPort != "8080" || cfg.ElectionID != "default" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.PostgresDSN != "" || cfg.AutoMigrate {
		t.Fatalf("expected in-memory defaults, got %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.OutboxBatchSize != 100 || cfg.OutboxPollInterval != 2*time.Second {
		t.Fatalf("unexpected outbox defaults %+v", cfg)
	}
	if !cfg.EnableNotificationAuditConsumer {
		t.Fatalf("expected audit consumer enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " broker-a:9092, ,broker-b:9092 ")
	t.Setenv("ELECTION_ID", "board-2026")
	t.Setenv("ELECTION_OWNER", "owner")
	t.Setenv("AUTO_MIGRATE", "yes")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("ENABLE_NOTIFICATION_AUDIT_CONSUMER", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if strings.Join(cfg.KafkaBrokers, ",") != "broker-a:9092,broker-b:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.ElectionID != "board-2026" || !cfg.AutoMigrate || cfg.EnableNotificationAuditConsumer {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.OutboxBatchSize != 25 || cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected outbox overrides %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("ELECTION_OWNER", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing owner error")
	}

	t.Setenv("ELECTION_OWNER", "owner")
	t.Setenv("OUTBOX_BATCH_SIZE", "zero")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid batch size error")
	}

	t.Setenv("OUTBOX_BATCH_SIZE", "")
	t.Setenv("OUTBOX_POLL_INTERVAL", "-1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid poll interval error")
	}
}

func TestEnvBoolFallsBackOnUnknownValues(t *testing.T) {
	t.Setenv("FLAG_UNDER_TEST", "maybe")
	if !envBool("FLAG_UNDER_TEST", true) {
		t.Fatalf("expected fallback true")
	}
	t.Setenv("FLAG_UNDER_TEST", "0")
	if envBool("FLAG_UNDER_TEST", true) {
		t.Fatalf("expected false")
	}
}
