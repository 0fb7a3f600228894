package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "votingregistry/contexts/governance/election-registry/application"
	"votingregistry/contexts/governance/election-registry/ports"
)

const defaultAuditConsumerGroup = "election-registry-audit-cg"

// NotificationAuditConsumer records every election notification delivered by
// the bus exactly once per event id, writing it to the structured log.
type NotificationAuditConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger
	// OnRecord, when set, receives each first-seen notification after it is logged.
	OnRecord func(ctx context.Context, event ports.EventEnvelope) error
}

func (c NotificationAuditConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("notification audit consumer disabled by feature flag",
			"event", "election_audit_consumer_disabled",
			"module", "governance/election-registry",
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultAuditConsumerGroup
	}
	for _, topic := range NotificationTopics() {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handle); err != nil {
			logger.Error("notification audit consumer subscribe failed",
				"event", "election_audit_consumer_subscribe_failed",
				"module", "governance/election-registry",
				"layer", "worker",
				"topic", topic,
				"consumer_group", group,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("notification audit consumer subscriptions active",
		"event", "election_audit_consumer_started",
		"module", "governance/election-registry",
		"layer", "worker",
		"consumer_group", group,
		"topics", len(NotificationTopics()),
	)
	return nil
}

func (c NotificationAuditConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), c.now().Add(c.dedupTTL()))
	if err != nil {
		logger.Error("election notification dedupe failed",
			"event", "election_audit_dedupe_failed",
			"module", "governance/election-registry",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}
	if alreadyProcessed {
		logger.Debug("election notification replay skipped",
			"event", "election_audit_replayed",
			"module", "governance/election-registry",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	var data map[string]any
	if err := json.Unmarshal(event.Data, &data); err != nil {
		logger.Error("election notification decode failed",
			"event", "election_audit_decode_failed",
			"module", "governance/election-registry",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("election notification recorded",
		"event", "election_audit_recorded",
		"module", "governance/election-registry",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
		"occurred_at", event.OccurredAt.UTC().Format(time.RFC3339Nano),
		"data", data,
	)
	if c.OnRecord != nil {
		return c.OnRecord(ctx, event)
	}
	return nil
}

func (c NotificationAuditConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (c NotificationAuditConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}
