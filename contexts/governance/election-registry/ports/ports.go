package ports

import (
	"context"
	"encoding/json"
	"time"

	"votingregistry/contexts/governance/election-registry/domain/entities"
)

// MutateFunc applies one operation to a private copy of the election and
// returns the envelopes to append to the outbox in the same commit.
type MutateFunc func(election *entities.Election) ([]EventEnvelope, error)

type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	// UpdateElection serializes writers on the election. When mutate fails
	// nothing is persisted and its error is returned unchanged.
	UpdateElection(ctx context.Context, electionID string, mutate MutateFunc) (entities.Election, error)
}

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type EventDedupStore interface {
	// ReserveEvent reports whether eventID was already processed.
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AddressResolver validates a caller or voter identity and returns its
// canonical form, so equal identities compare equal as strings.
type AddressResolver interface {
	Normalize(raw string) (string, error)
}
