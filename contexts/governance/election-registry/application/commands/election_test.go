package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	ethereumadapter "votingregistry/contexts/governance/election-registry/adapters/ethereum"
	"votingregistry/contexts/governance/election-registry/adapters/memory"
	"votingregistry/contexts/governance/election-registry/domain/entities"
	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
	"votingregistry/contexts/governance/election-registry/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now.UTC()
}

func newUseCase(t *testing.T) (ElectionUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore(nil)
	uc := ElectionUseCase{
		Elections:  store,
		Clock:      fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		IDGen:      store,
		ElectionID: "board-2026",
	}
	if _, err := uc.EnsureElection(context.Background(), "owner"); err != nil {
		t.Fatalf("ensure election failed: %v", err)
	}
	return uc, store
}

func pendingEventTypes(t *testing.T, store *memory.Store) []string {
	t.Helper()
	pending, err := store.ListPendingOutbox(context.Background(), 1000)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	types := make([]string, 0, len(pending))
	for _, message := range pending {
		types = append(types, message.EventType)
	}
	return types
}

func TestEnsureElectionIsIdempotentForSameOwner(t *testing.T) {
	uc, _ := newUseCase(t)

	election, err := uc.EnsureElection(context.Background(), "owner")
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if election.ElectionID != "board-2026" || election.Owner != "owner" {
		t.Fatalf("unexpected election %+v", election)
	}
	if election.Status != entities.WorkflowStatusRegisteringVoters {
		t.Fatalf("expected registering voters, got %s", election.Status)
	}

	if _, err := uc.EnsureElection(context.Background(), "mallory"); !errors.Is(err, domainerrors.ErrOwnerMismatch) {
		t.Fatalf("expected owner mismatch, got %v", err)
	}
}

func TestElectionLifecycleEmitsNotificationsInCommitOrder(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	admin := AdminCommand{Caller: "owner"}

	for _, voter := range []string{"alice", "bob", "carol"} {
		if _, err := uc.AddVoter(ctx, AddVoterCommand{Caller: "owner", Address: voter}); err != nil {
			t.Fatalf("add voter %s failed: %v", voter, err)
		}
	}
	if _, err := uc.StartProposalsRegistering(ctx, admin); err != nil {
		t.Fatalf("start proposals registering failed: %v", err)
	}
	first, err := uc.AddProposal(ctx, AddProposalCommand{Caller: "alice", Description: "Build a park"})
	if err != nil {
		t.Fatalf("add proposal failed: %v", err)
	}
	if first.ProposalID != 1 {
		t.Fatalf("expected first user proposal id 1, got %d", first.ProposalID)
	}
	if _, err := uc.AddProposal(ctx, AddProposalCommand{Caller: "bob", Description: "Fix the roads"}); err != nil {
		t.Fatalf("add proposal failed: %v", err)
	}
	if _, err := uc.EndProposalsRegistering(ctx, admin); err != nil {
		t.Fatalf("end proposals registering failed: %v", err)
	}
	if _, err := uc.StartVotingSession(ctx, admin); err != nil {
		t.Fatalf("start voting session failed: %v", err)
	}
	for voter, proposal := range map[string]int{"alice": 1, "bob": 2, "carol": 2} {
		record, err := uc.SetVote(ctx, SetVoteCommand{Caller: voter, ProposalID: proposal})
		if err != nil {
			t.Fatalf("vote by %s failed: %v", voter, err)
		}
		if !record.HasVoted || record.VotedProposalID != proposal {
			t.Fatalf("unexpected voter record %+v", record)
		}
	}
	if _, err := uc.EndVotingSession(ctx, admin); err != nil {
		t.Fatalf("end voting session failed: %v", err)
	}
	result, err := uc.TallyVotes(ctx, admin)
	if err != nil {
		t.Fatalf("tally votes failed: %v", err)
	}
	if result.WinningProposalID != 2 {
		t.Fatalf("expected proposal 2 to win, got %d", result.WinningProposalID)
	}
	if result.PreviousStatus != entities.WorkflowStatusVotingSessionEnded || result.NewStatus != entities.WorkflowStatusVotesTallied {
		t.Fatalf("unexpected tally transition %+v", result.TransitionResult)
	}

	types := pendingEventTypes(t, store)
	counts := map[string]int{}
	for _, eventType := range types {
		counts[eventType]++
	}
	if counts[entities.EventTypeVoterRegistered] != 3 ||
		counts[entities.EventTypeProposalRegistered] != 2 ||
		counts[entities.EventTypeVoted] != 3 ||
		counts[entities.EventTypeWorkflowStatusChanged] != 5 {
		t.Fatalf("unexpected notification counts %v", counts)
	}
}

func TestRejectedOperationsLeaveNoTrace(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"non-owner adds voter", func() error {
			_, err := uc.AddVoter(ctx, AddVoterCommand{Caller: "alice", Address: "bob"})
			return err
		}, domainerrors.ErrNotOwner},
		{"owner adds empty address", func() error {
			_, err := uc.AddVoter(ctx, AddVoterCommand{Caller: "owner", Address: "  "})
			return err
		}, domainerrors.ErrInvalidAddress},
		{"unregistered caller proposes", func() error {
			_, err := uc.AddProposal(ctx, AddProposalCommand{Caller: "alice", Description: "x"})
			return err
		}, domainerrors.ErrNotVoter},
		{"tally before voting", func() error {
			_, err := uc.TallyVotes(ctx, AdminCommand{Caller: "owner"})
			return err
		}, domainerrors.ErrWorkflowStatusMismatch},
		{"non-owner opens proposals", func() error {
			_, err := uc.StartProposalsRegistering(ctx, AdminCommand{Caller: "alice"})
			return err
		}, domainerrors.ErrNotOwner},
	}
	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if types := pendingEventTypes(t, store); len(types) != 0 {
		t.Fatalf("expected empty outbox after rejections, got %v", types)
	}
	election, err := store.GetElection(ctx, "board-2026")
	if err != nil {
		t.Fatalf("load election failed: %v", err)
	}
	if election.Status != entities.WorkflowStatusRegisteringVoters || len(election.Voters) != 0 {
		t.Fatalf("expected untouched election, got %+v", election)
	}
}

func TestWorkflowStatusErrorNamesOperationAndStatuses(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.EndVotingSession(context.Background(), AdminCommand{Caller: "owner"})

	var statusErr *domainerrors.WorkflowStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected workflow status error, got %v", err)
	}
	if statusErr.Expected != entities.WorkflowStatusVotingSessionStarted.String() ||
		statusErr.Current != entities.WorkflowStatusRegisteringVoters.String() {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestOutboxEnvelopeCarriesNotificationFields(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	if _, err := uc.AddVoter(ctx, AddVoterCommand{Caller: "owner", Address: "alice"}); err != nil {
		t.Fatalf("add voter failed: %v", err)
	}
	if _, err := uc.StartProposalsRegistering(ctx, AdminCommand{Caller: "owner"}); err != nil {
		t.Fatalf("start proposals registering failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected two pending rows, got %d", len(pending))
	}
	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			t.Fatalf("decode envelope failed: %v", err)
		}
		if envelope.SourceService != "election-registry" || envelope.PartitionKey != "board-2026" ||
			envelope.PartitionKeyPath != "election_id" || envelope.SchemaVersion != 1 {
			t.Fatalf("unexpected envelope metadata %+v", envelope)
		}
		if !envelope.OccurredAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
			t.Fatalf("expected clock timestamp, got %s", envelope.OccurredAt)
		}
		var data map[string]any
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			t.Fatalf("decode data failed: %v", err)
		}
		switch envelope.EventType {
		case entities.EventTypeVoterRegistered:
			if data["voter_address"] != "alice" {
				t.Fatalf("unexpected voter payload %v", data)
			}
		case entities.EventTypeWorkflowStatusChanged:
			if data["previous_status"] != "RegisteringVoters" || data["new_status"] != "ProposalsRegistrationStarted" {
				t.Fatalf("unexpected status payload %v", data)
			}
		default:
			t.Fatalf("unexpected event type %s", envelope.EventType)
		}
	}
}

func TestConcurrentBallotsFromOneVoterCountOnce(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	admin := AdminCommand{Caller: "owner"}
	if _, err := uc.AddVoter(ctx, AddVoterCommand{Caller: "owner", Address: "alice"}); err != nil {
		t.Fatalf("add voter failed: %v", err)
	}
	if _, err := uc.StartProposalsRegistering(ctx, admin); err != nil {
		t.Fatalf("start proposals failed: %v", err)
	}
	if _, err := uc.AddProposal(ctx, AddProposalCommand{Caller: "alice", Description: "only"}); err != nil {
		t.Fatalf("add proposal failed: %v", err)
	}
	if _, err := uc.EndProposalsRegistering(ctx, admin); err != nil {
		t.Fatalf("end proposals failed: %v", err)
	}
	if _, err := uc.StartVotingSession(ctx, admin); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, duplicates := 0, 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.SetVote(ctx, SetVoteCommand{Caller: "alice", ProposalID: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, domainerrors.ErrAlreadyVoted):
				duplicates++
			default:
				t.Errorf("unexpected vote error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 || duplicates != 15 {
		t.Fatalf("expected one accepted ballot, got accepted=%d duplicates=%d", accepted, duplicates)
	}
	election, err := store.GetElection(ctx, "board-2026")
	if err != nil {
		t.Fatalf("load election failed: %v", err)
	}
	if election.Proposals[1].VoteCount != 1 {
		t.Fatalf("expected exactly one vote counted, got %d", election.Proposals[1].VoteCount)
	}
}

func TestEthereumCallersAreMatchedCaseInsensitively(t *testing.T) {
	owner := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	voter := "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	store := memory.NewStore(nil)
	uc := ElectionUseCase{
		Elections: store,
		Addresses: ethereumadapter.AddressResolver{},
		IDGen:     store,
	}
	ctx := context.Background()
	election, err := uc.EnsureElection(ctx, strings.ToLower(owner))
	if err != nil {
		t.Fatalf("ensure election failed: %v", err)
	}
	if election.Owner != owner || election.ElectionID != "default" {
		t.Fatalf("expected checksummed owner in default election, got %+v", election)
	}

	registered, err := uc.AddVoter(ctx, AddVoterCommand{Caller: strings.ToLower(owner), Address: strings.ToLower(voter)})
	if err != nil {
		t.Fatalf("add voter failed: %v", err)
	}
	if registered.Address != voter {
		t.Fatalf("expected checksummed voter %s, got %s", voter, registered.Address)
	}

	_, err = uc.AddVoter(ctx, AddVoterCommand{Caller: owner, Address: voter[2:]})
	if !errors.Is(err, domainerrors.ErrVoterAlreadyRegistered) {
		t.Fatalf("expected already registered for unprefixed duplicate, got %v", err)
	}
	_, err = uc.AddVoter(ctx, AddVoterCommand{Caller: owner, Address: "not-an-address"})
	if !errors.Is(err, domainerrors.ErrInvalidAddress) {
		t.Fatalf("expected invalid address, got %v", err)
	}
	_, err = uc.AddVoter(ctx, AddVoterCommand{Caller: "not-an-address", Address: voter})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner for malformed caller, got %v", err)
	}
}

func TestIDGeneratorFailureAbortsOperation(t *testing.T) {
	uc, store := newUseCase(t)
	uc.IDGen = failingIDGen{}
	_, err := uc.AddVoter(context.Background(), AddVoterCommand{Caller: "owner", Address: "alice"})
	if err == nil || !strings.Contains(err.Error(), "id generator down") {
		t.Fatalf("expected id generator failure, got %v", err)
	}
	election, err := store.GetElection(context.Background(), "board-2026")
	if err != nil {
		t.Fatalf("load election failed: %v", err)
	}
	if election.IsRegistered("alice") {
		t.Fatalf("voter must not be registered when the notification cannot be written")
	}
}

type failingIDGen struct{}

func (failingIDGen) NewID(context.Context) (string, error) {
	return "", fmt.Errorf("id generator down")
}

// gatedClock blocks its first reading until release is closed.
type gatedClock struct {
	now     time.Time
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (c *gatedClock) Now() time.Time {
	c.once.Do(func() {
		close(c.entered)
		<-c.release
	})
	return c.now.UTC()
}

func TestRacingWritersAreRelayedInCommitOrder(t *testing.T) {
	first, store := newUseCase(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	gate := &gatedClock{
		now:     base.Add(time.Millisecond),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	first.Clock = gate
	second := first
	second.Clock = fixedClock{now: base}
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		_, err := first.AddVoter(ctx, AddVoterCommand{Caller: "owner", Address: "alice"})
		firstDone <- err
	}()
	<-gate.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := second.StartProposalsRegistering(ctx, AdminCommand{Caller: "owner"})
		secondDone <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(gate.release)

	if err := <-firstDone; err != nil {
		t.Fatalf("add voter failed: %v", err)
	}
	if err := <-secondDone; err != nil {
		t.Fatalf("start proposals failed: %v", err)
	}

	got := pendingEventTypes(t, store)
	want := []string{entities.EventTypeVoterRegistered, entities.EventTypeWorkflowStatusChanged}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected outbox order %v, got %v", want, got)
	}
}
