package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "votingregistry/contexts/governance/election-registry/application"
	"votingregistry/contexts/governance/election-registry/ports"
)

// OutboxRelay publishes persisted election notifications to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes one batch in commit order. A row is marked published only
// after the broker accepts it, and the cycle stops at the first failure so the
// next cycle retries from that row.
//
// Accepted means handed to the bus, not consumed: the in-process bus drops an
// event for a subscriber whose buffer is full, so delivery to consumers is
// at-most-once.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("election outbox list failed",
			"event", "election_outbox_list_failed",
			"module", "governance/election-registry",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("election outbox relay found no pending rows",
			"event", "election_outbox_relay_noop",
			"module", "governance/election-registry",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("election outbox decode failed",
				"event", "election_outbox_decode_failed",
				"module", "governance/election-registry",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("election outbox publish failed",
				"event", "election_outbox_publish_failed",
				"module", "governance/election-registry",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("election outbox mark published failed",
				"event", "election_outbox_mark_published_failed",
				"module", "governance/election-registry",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("election outbox relay cycle completed",
		"event", "election_outbox_relay_completed",
		"module", "governance/election-registry",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}

// Run repeats RunOnce every interval until ctx is cancelled. Cycle errors are
// logged by RunOnce and retried on the next tick.
func (r OutboxRelay) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		_ = r.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
