package commands

import (
	"encoding/json"
	"time"

	"votingregistry/contexts/governance/election-registry/domain/entities"
	"votingregistry/contexts/governance/election-registry/ports"
)

func newElectionEnvelope(eventID string, event entities.Event, occurredAt time.Time) (ports.EventEnvelope, error) {
	// Every notification is partitioned by election so observers see them in
	// commit order.
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        event.EventType(),
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "election-registry",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     event.PartitionKey(),
		Data:             payload,
	}, nil
}
