package queries

import (
	"context"
	"log/slog"
	"strings"

	application "votingregistry/contexts/governance/election-registry/application"
	"votingregistry/contexts/governance/election-registry/domain/entities"
	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
	"votingregistry/contexts/governance/election-registry/ports"
)

// RegistryUseCase serves reads from one consistent election snapshot.
type RegistryUseCase struct {
	Elections  ports.ElectionRepository
	Addresses  ports.AddressResolver
	ElectionID string
	Logger     *slog.Logger
}

type Winner struct {
	ProposalID int
	Tallied    bool
}

type Summary struct {
	ElectionID        string
	Owner             string
	Status            entities.WorkflowStatus
	VoterCount        int
	VotedCount        int
	ProposalCount     int
	WinningProposalID int
	Tallied           bool
}

func (uc RegistryUseCase) GetVoter(ctx context.Context, caller string, address string) (entities.Voter, error) {
	election, err := uc.load(ctx)
	if err != nil {
		return entities.Voter{}, err
	}
	caller = uc.resolve(caller)
	if !election.IsRegistered(caller) {
		uc.logRejected("get_voter", caller, domainerrors.ErrNotVoter)
		return entities.Voter{}, domainerrors.ErrNotVoter
	}
	normalized, err := uc.normalize(address)
	if err != nil {
		return entities.Voter{}, err
	}
	return election.Voter(caller, normalized)
}

func (uc RegistryUseCase) GetOneProposal(ctx context.Context, caller string, proposalID int) (entities.Proposal, error) {
	election, err := uc.load(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	caller = uc.resolve(caller)
	proposal, err := election.Proposal(caller, proposalID)
	if err != nil {
		uc.logRejected("get_one_proposal", caller, err)
		return entities.Proposal{}, err
	}
	return proposal, nil
}

func (uc RegistryUseCase) GetWorkflowStatus(ctx context.Context) (entities.WorkflowStatus, error) {
	election, err := uc.load(ctx)
	if err != nil {
		return 0, err
	}
	return election.Status, nil
}

// GetWinningProposalID is meaningful only once Tallied is true.
func (uc RegistryUseCase) GetWinningProposalID(ctx context.Context) (Winner, error) {
	election, err := uc.load(ctx)
	if err != nil {
		return Winner{}, err
	}
	id, tallied := election.WinningProposal()
	return Winner{ProposalID: id, Tallied: tallied}, nil
}

func (uc RegistryUseCase) GetOwner(ctx context.Context) (string, error) {
	election, err := uc.load(ctx)
	if err != nil {
		return "", err
	}
	return election.Owner, nil
}

func (uc RegistryUseCase) GetSummary(ctx context.Context) (Summary, error) {
	election, err := uc.load(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		ElectionID:    election.ElectionID,
		Owner:         election.Owner,
		Status:        election.Status,
		ProposalCount: len(election.Proposals),
	}
	for _, voter := range election.Voters {
		if voter.IsRegistered {
			summary.VoterCount++
		}
		if voter.HasVoted {
			summary.VotedCount++
		}
	}
	summary.WinningProposalID, summary.Tallied = election.WinningProposal()
	return summary, nil
}

func (uc RegistryUseCase) load(ctx context.Context) (entities.Election, error) {
	electionID := strings.TrimSpace(uc.ElectionID)
	if electionID == "" {
		electionID = "default"
	}
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		application.ResolveLogger(uc.Logger).Error("election snapshot load failed",
			"event", "election_snapshot_load_failed",
			"module", "governance/election-registry",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
		return entities.Election{}, err
	}
	return election, nil
}

func (uc RegistryUseCase) resolve(caller string) string {
	normalized, err := uc.normalize(caller)
	if err != nil {
		return strings.TrimSpace(caller)
	}
	return normalized
}

func (uc RegistryUseCase) normalize(raw string) (string, error) {
	if uc.Addresses == nil {
		value := strings.TrimSpace(raw)
		if value == "" {
			return "", domainerrors.ErrInvalidAddress
		}
		return value, nil
	}
	return uc.Addresses.Normalize(raw)
}

func (uc RegistryUseCase) logRejected(operation string, caller string, err error) {
	application.ResolveLogger(uc.Logger).Warn("election read rejected",
		"event", "election_"+operation+"_rejected",
		"module", "governance/election-registry",
		"layer", "application",
		"caller", caller,
		"error", err.Error(),
	)
}
