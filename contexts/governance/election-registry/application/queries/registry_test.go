package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"votingregistry/contexts/governance/election-registry/adapters/memory"
	"votingregistry/contexts/governance/election-registry/domain/entities"
	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
)

func seededRegistry(t *testing.T, status entities.WorkflowStatus) RegistryUseCase {
	t.Helper()
	election := entities.NewElection("default", "owner", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	election.Status = status
	election.Voters["alice"] = entities.Voter{Address: "alice", IsRegistered: true, HasVoted: true, VotedProposalID: 1}
	election.Voters["bob"] = entities.Voter{Address: "bob", IsRegistered: true}
	election.Proposals = []entities.Proposal{
		{ProposalID: 0, Description: entities.GenesisDescription},
		{ProposalID: 1, Description: "Build a park", VoteCount: 1},
	}
	if status == entities.WorkflowStatusVotesTallied {
		election.WinningProposalID = 1
	}
	return RegistryUseCase{Elections: memory.NewStore([]entities.Election{election})}
}

func TestGetVoterRequiresRegisteredCaller(t *testing.T) {
	registry := seededRegistry(t, entities.WorkflowStatusVotingSessionStarted)
	ctx := context.Background()

	voter, err := registry.GetVoter(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("get voter failed: %v", err)
	}
	if !voter.IsRegistered || !voter.HasVoted || voter.VotedProposalID != 1 {
		t.Fatalf("unexpected voter %+v", voter)
	}

	unknown, err := registry.GetVoter(ctx, "bob", "zed")
	if err != nil {
		t.Fatalf("get unknown voter failed: %v", err)
	}
	if unknown.IsRegistered || unknown.HasVoted || unknown.VotedProposalID != 0 {
		t.Fatalf("expected zero record for unknown address, got %+v", unknown)
	}

	if _, err := registry.GetVoter(ctx, "owner", "alice"); !errors.Is(err, domainerrors.ErrNotVoter) {
		t.Fatalf("expected not voter for the owner, got %v", err)
	}
}

func TestGetOneProposal(t *testing.T) {
	registry := seededRegistry(t, entities.WorkflowStatusVotingSessionStarted)
	ctx := context.Background()

	genesis, err := registry.GetOneProposal(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("get genesis failed: %v", err)
	}
	if genesis.Description != entities.GenesisDescription {
		t.Fatalf("expected genesis, got %+v", genesis)
	}
	for _, id := range []int{-1, 2, 99} {
		if _, err := registry.GetOneProposal(ctx, "alice", id); !errors.Is(err, domainerrors.ErrProposalNotFound) {
			t.Fatalf("expected not found for %d, got %v", id, err)
		}
	}
	if _, err := registry.GetOneProposal(ctx, "mallory", 0); !errors.Is(err, domainerrors.ErrNotVoter) {
		t.Fatalf("expected not voter, got %v", err)
	}
}

func TestWinnerIsReportedOnlyAfterTally(t *testing.T) {
	ctx := context.Background()

	open := seededRegistry(t, entities.WorkflowStatusVotingSessionEnded)
	winner, err := open.GetWinningProposalID(ctx)
	if err != nil {
		t.Fatalf("get winner failed: %v", err)
	}
	if winner.Tallied || winner.ProposalID != 0 {
		t.Fatalf("expected untallied zero winner, got %+v", winner)
	}

	closed := seededRegistry(t, entities.WorkflowStatusVotesTallied)
	winner, err = closed.GetWinningProposalID(ctx)
	if err != nil {
		t.Fatalf("get winner failed: %v", err)
	}
	if !winner.Tallied || winner.ProposalID != 1 {
		t.Fatalf("expected tallied winner 1, got %+v", winner)
	}
}

func TestSummaryAndPublicReads(t *testing.T) {
	registry := seededRegistry(t, entities.WorkflowStatusVotesTallied)
	ctx := context.Background()

	status, err := registry.GetWorkflowStatus(ctx)
	if err != nil || status != entities.WorkflowStatusVotesTallied {
		t.Fatalf("expected tallied status, got %s (%v)", status, err)
	}
	owner, err := registry.GetOwner(ctx)
	if err != nil || owner != "owner" {
		t.Fatalf("expected owner, got %q (%v)", owner, err)
	}
	summary, err := registry.GetSummary(ctx)
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if summary.VoterCount != 2 || summary.VotedCount != 1 || summary.ProposalCount != 2 {
		t.Fatalf("unexpected summary counts %+v", summary)
	}
	if !summary.Tallied || summary.WinningProposalID != 1 {
		t.Fatalf("unexpected summary winner %+v", summary)
	}
}

func TestReadsFailWithoutElection(t *testing.T) {
	registry := RegistryUseCase{Elections: memory.NewStore(nil), ElectionID: "missing"}
	if _, err := registry.GetWorkflowStatus(context.Background()); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election not found, got %v", err)
	}
}
