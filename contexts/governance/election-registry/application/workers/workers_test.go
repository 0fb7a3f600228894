package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"votingregistry/contexts/governance/election-registry/adapters/memory"
	"votingregistry/contexts/governance/election-registry/application/commands"
	"votingregistry/contexts/governance/election-registry/domain/entities"
	"votingregistry/contexts/governance/election-registry/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now.UTC()
}

type recordingPublisher struct {
	failAfter int
	published []ports.EventEnvelope
	topics    []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failAfter > 0 && len(p.published) >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	p.topics = append(p.topics, topic)
	return nil
}

type stubSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
	groups   map[string]string
}

func (s *stubSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	if s.handlers == nil {
		s.handlers = map[string]func(context.Context, ports.EventEnvelope) error{}
		s.groups = map[string]string{}
	}
	s.handlers[topic] = handler
	s.groups[topic] = consumerGroup
	return nil
}

// seedElection runs a short election so the outbox holds one row per
// notification kind.
func seedElection(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(nil)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	ctx := context.Background()
	next := func() commands.ElectionUseCase {
		step++
		return commands.ElectionUseCase{
			Elections: store,
			Clock:     fixedClock{now: base.Add(time.Duration(step) * time.Second)},
			IDGen:     store,
		}
	}
	if _, err := next().EnsureElection(ctx, "owner"); err != nil {
		t.Fatalf("ensure election failed: %v", err)
	}
	if _, err := next().AddVoter(ctx, commands.AddVoterCommand{Caller: "owner", Address: "alice"}); err != nil {
		t.Fatalf("add voter failed: %v", err)
	}
	if _, err := next().StartProposalsRegistering(ctx, commands.AdminCommand{Caller: "owner"}); err != nil {
		t.Fatalf("start proposals failed: %v", err)
	}
	if _, err := next().AddProposal(ctx, commands.AddProposalCommand{Caller: "alice", Description: "park"}); err != nil {
		t.Fatalf("add proposal failed: %v", err)
	}
	if _, err := next().EndProposalsRegistering(ctx, commands.AdminCommand{Caller: "owner"}); err != nil {
		t.Fatalf("end proposals failed: %v", err)
	}
	if _, err := next().StartVotingSession(ctx, commands.AdminCommand{Caller: "owner"}); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}
	if _, err := next().SetVote(ctx, commands.SetVoteCommand{Caller: "alice", ProposalID: 1}); err != nil {
		t.Fatalf("set vote failed: %v", err)
	}
	return store
}

func TestOutboxRelayPublishesInCommitOrder(t *testing.T) {
	store := seedElection(t)
	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 100}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	expected := []string{
		entities.EventTypeVoterRegistered,
		entities.EventTypeWorkflowStatusChanged,
		entities.EventTypeProposalRegistered,
		entities.EventTypeWorkflowStatusChanged,
		entities.EventTypeWorkflowStatusChanged,
		entities.EventTypeVoted,
	}
	if fmt.Sprint(publisher.topics) != fmt.Sprint(expected) {
		t.Fatalf("expected topics %v, got %v", expected, publisher.topics)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 100)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected all rows published, %d pending", len(pending))
	}
}

func TestOutboxRelayStopsAtFirstPublishFailure(t *testing.T) {
	store := seedElection(t)
	publisher := &recordingPublisher{failAfter: 2}
	relay := OutboxRelay{Outbox: store, Publisher: publisher}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure")
	}
	pending, err := store.ListPendingOutbox(context.Background(), 100)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 4 {
		t.Fatalf("expected 4 rows left for retry, got %d", len(pending))
	}
	if pending[0].EventType != entities.EventTypeProposalRegistered {
		t.Fatalf("expected retry to resume at proposal.registered, got %s", pending[0].EventType)
	}
}

func TestNotificationAuditConsumerDeduplicatesByEventID(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore(nil)
	store.Clock = clock
	sub := &stubSubscriber{}
	var recorded []string
	consumer := NotificationAuditConsumer{
		Subscriber: sub,
		Dedup:      store,
		Clock:      clock,
		OnRecord: func(_ context.Context, event ports.EventEnvelope) error {
			recorded = append(recorded, event.EventID)
			return nil
		},
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start consumer failed: %v", err)
	}
	for _, topic := range NotificationTopics() {
		if sub.handlers[topic] == nil {
			t.Fatalf("expected handler for %s", topic)
		}
		if sub.groups[topic] != defaultAuditConsumerGroup {
			t.Fatalf("expected default consumer group, got %s", sub.groups[topic])
		}
	}

	payload, _ := json.Marshal(map[string]any{"election_id": "default", "voter_address": "alice"})
	event := ports.EventEnvelope{
		EventID:   "evt-voter-1",
		EventType: entities.EventTypeVoterRegistered,
		Data:      payload,
	}
	handler := sub.handlers[entities.EventTypeVoterRegistered]
	for i := 0; i < 3; i++ {
		if err := handler(context.Background(), event); err != nil {
			t.Fatalf("handle delivery %d failed: %v", i, err)
		}
	}
	if len(recorded) != 1 {
		t.Fatalf("expected one recorded notification, got %v", recorded)
	}

	event.Data = []byte(`{"election_id":"default","voter_address":"bob"}`)
	if err := handler(context.Background(), event); err == nil {
		t.Fatalf("expected conflict for reused event id with different payload")
	}
}

func TestNotificationAuditConsumerDisabled(t *testing.T) {
	sub := &stubSubscriber{}
	consumer := NotificationAuditConsumer{Subscriber: sub, Disabled: true}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start disabled consumer failed: %v", err)
	}
	if len(sub.handlers) != 0 {
		t.Fatalf("disabled consumer must not subscribe")
	}
}

func TestEventSchemasMatchEmittedEnvelopes(t *testing.T) {
	root, err := findRepoRoot()
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	store := seedElection(t)
	pending, err := store.ListPendingOutbox(context.Background(), 100)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}

	seen := map[string]bool{}
	for _, message := range pending {
		var envelope map[string]any
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			t.Fatalf("decode envelope failed: %v", err)
		}
		eventType, _ := envelope["event_type"].(string)
		seen[eventType] = true

		raw, err := os.ReadFile(filepath.Join(root, "contracts", "events", "v1", eventType+".schema.json"))
		if err != nil {
			t.Fatalf("read schema for %s: %v", eventType, err)
		}
		var schema struct {
			Title      string                    `json:"title"`
			Required   []string                  `json:"required"`
			Properties map[string]map[string]any `json:"properties"`
		}
		if err := json.Unmarshal(raw, &schema); err != nil {
			t.Fatalf("decode schema for %s: %v", eventType, err)
		}
		if schema.Title != eventType {
			t.Fatalf("schema %s has wrong title %q", eventType, schema.Title)
		}
		for _, key := range schema.Required {
			if _, ok := envelope[key]; !ok {
				t.Fatalf("%s envelope missing required key %s", eventType, key)
			}
		}
		if got, _ := schema.Properties["event_type"]["const"].(string); got != eventType {
			t.Fatalf("schema %s has wrong event_type const %q", eventType, got)
		}
		if got, _ := schema.Properties["partition_key_path"]["const"].(string); got != envelope["partition_key_path"] {
			t.Fatalf("schema %s partition path %q does not match envelope", eventType, got)
		}

		dataSchema := schema.Properties["data"]
		dataRequired, _ := dataSchema["required"].([]any)
		data, _ := envelope["data"].(map[string]any)
		for _, key := range dataRequired {
			name, _ := key.(string)
			if _, ok := data[name]; !ok {
				t.Fatalf("%s data missing required key %s", eventType, name)
			}
		}
	}
	for _, topic := range NotificationTopics() {
		if !seen[topic] {
			t.Fatalf("expected an emitted %s notification", topic)
		}
	}
}

func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	current := wd
	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("go.mod not found from %s", wd)
		}
		current = parent
	}
}
