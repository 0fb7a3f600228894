package commands

import (
	"context"

	"votingregistry/contexts/governance/election-registry/domain/entities"
)

type AddVoterCommand struct {
	Caller  string
	Address string
}

type AddProposalCommand struct {
	Caller      string
	Description string
}

type SetVoteCommand struct {
	Caller     string
	ProposalID int
}

func (uc ElectionUseCase) AddVoter(ctx context.Context, cmd AddVoterCommand) (entities.Voter, error) {
	caller := uc.resolveCaller(cmd.Caller)
	// A malformed address normalizes to "", which the aggregate rejects only
	// after the role and phase checks.
	address, _ := uc.normalizeAddress(cmd.Address)
	election, err := uc.apply(ctx, "add_voter", caller, []any{"voter_address", address},
		func(election *entities.Election) (entities.Event, error) {
			return election.AddVoter(caller, address)
		})
	if err != nil {
		return entities.Voter{}, err
	}
	return election.Voters[address], nil
}

func (uc ElectionUseCase) AddProposal(ctx context.Context, cmd AddProposalCommand) (entities.Proposal, error) {
	var registered entities.ProposalRegistered
	caller := uc.resolveCaller(cmd.Caller)
	election, err := uc.apply(ctx, "add_proposal", caller, nil, func(election *entities.Election) (entities.Event, error) {
		var err error
		registered, err = election.AddProposal(caller, cmd.Description)
		return registered, err
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	return election.Proposals[registered.ProposalID], nil
}

func (uc ElectionUseCase) SetVote(ctx context.Context, cmd SetVoteCommand) (entities.Voter, error) {
	caller := uc.resolveCaller(cmd.Caller)
	election, err := uc.apply(ctx, "set_vote", caller, []any{"proposal_id", cmd.ProposalID},
		func(election *entities.Election) (entities.Event, error) {
			return election.SetVote(caller, cmd.ProposalID)
		})
	if err != nil {
		return entities.Voter{}, err
	}
	return election.Voters[caller], nil
}
