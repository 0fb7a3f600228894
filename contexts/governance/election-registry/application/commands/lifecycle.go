package commands

import (
	"context"

	"votingregistry/contexts/governance/election-registry/domain/entities"
)

// TransitionResult reports the workflow edge taken by an administrator command.
type TransitionResult struct {
	PreviousStatus entities.WorkflowStatus
	NewStatus      entities.WorkflowStatus
}

// TallyResult is the frozen outcome of the election.
type TallyResult struct {
	TransitionResult
	WinningProposalID int
}

func (uc ElectionUseCase) StartProposalsRegistering(ctx context.Context, cmd AdminCommand) (TransitionResult, error) {
	return uc.transition(ctx, "start_proposals_registering", cmd, (*entities.Election).StartProposalsRegistering)
}

func (uc ElectionUseCase) EndProposalsRegistering(ctx context.Context, cmd AdminCommand) (TransitionResult, error) {
	return uc.transition(ctx, "end_proposals_registering", cmd, (*entities.Election).EndProposalsRegistering)
}

func (uc ElectionUseCase) StartVotingSession(ctx context.Context, cmd AdminCommand) (TransitionResult, error) {
	return uc.transition(ctx, "start_voting_session", cmd, (*entities.Election).StartVotingSession)
}

func (uc ElectionUseCase) EndVotingSession(ctx context.Context, cmd AdminCommand) (TransitionResult, error) {
	return uc.transition(ctx, "end_voting_session", cmd, (*entities.Election).EndVotingSession)
}

// TallyVotes freezes the winner and closes the workflow.
func (uc ElectionUseCase) TallyVotes(ctx context.Context, cmd AdminCommand) (TallyResult, error) {
	var change entities.WorkflowStatusChanged
	caller := uc.resolveCaller(cmd.Caller)
	election, err := uc.apply(ctx, "tally_votes", caller, nil, func(election *entities.Election) (entities.Event, error) {
		var err error
		change, err = election.TallyVotes(caller)
		return change, err
	})
	if err != nil {
		return TallyResult{}, err
	}
	return TallyResult{
		TransitionResult: TransitionResult{
			PreviousStatus: change.PreviousStatus,
			NewStatus:      change.NewStatus,
		},
		WinningProposalID: election.WinningProposalID,
	}, nil
}

func (uc ElectionUseCase) transition(
	ctx context.Context,
	operation string,
	cmd AdminCommand,
	step func(*entities.Election, string) (entities.WorkflowStatusChanged, error),
) (TransitionResult, error) {
	var change entities.WorkflowStatusChanged
	caller := uc.resolveCaller(cmd.Caller)
	_, err := uc.apply(ctx, operation, caller, nil, func(election *entities.Election) (entities.Event, error) {
		var err error
		change, err = step(election, caller)
		return change, err
	})
	if err != nil {
		return TransitionResult{}, err
	}
	return TransitionResult{
		PreviousStatus: change.PreviousStatus,
		NewStatus:      change.NewStatus,
	}, nil
}
