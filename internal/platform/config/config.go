package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	ElectionID    string
	ElectionOwner string
	AutoMigrate   bool

	OutboxBatchSize    int
	OutboxPollInterval time.Duration

	EnableNotificationAuditConsumer bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "votingregistry"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	electionID := strings.TrimSpace(os.Getenv("ELECTION_ID"))
	if electionID == "" {
		electionID = "default"
	}
	owner := strings.TrimSpace(os.Getenv("ELECTION_OWNER"))
	if owner == "" {
		return Config{}, errors.New("ELECTION_OWNER is required")
	}

	batchSize, err := envInt("OUTBOX_BATCH_SIZE", 100)
	if err != nil {
		return Config{}, err
	}
	pollInterval, err := envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		KafkaBrokers: brokers,

		ElectionID:    electionID,
		ElectionOwner: owner,
		AutoMigrate:   envBool("AUTO_MIGRATE", false),

		OutboxBatchSize:    batchSize,
		OutboxPollInterval: pollInterval,

		EnableNotificationAuditConsumer: envBool("ENABLE_NOTIFICATION_AUDIT_CONSUMER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return value, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", name, raw)
	}
	return value, nil
}
