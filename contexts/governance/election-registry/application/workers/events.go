package workers

import (
	"crypto/sha256"
	"encoding/hex"

	"votingregistry/contexts/governance/election-registry/domain/entities"
)

// NotificationTopics lists the topics the outbox relay publishes to; each
// topic is the event type written to the outbox.
func NotificationTopics() []string {
	return []string{
		entities.EventTypeVoterRegistered,
		entities.EventTypeProposalRegistered,
		entities.EventTypeVoted,
		entities.EventTypeWorkflowStatusChanged,
	}
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
