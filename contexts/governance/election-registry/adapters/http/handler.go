package httpadapter

import (
	"context"
	"log/slog"

	"votingregistry/contexts/governance/election-registry/application/commands"
	"votingregistry/contexts/governance/election-registry/application/queries"
	"votingregistry/contexts/governance/election-registry/domain/entities"
	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
	httptransport "votingregistry/contexts/governance/election-registry/transport/http"
)

// Handler maps transport DTOs onto the election use cases. The caller is the
// authenticated address of the request and is passed through unmodified.
type Handler struct {
	Elections commands.ElectionUseCase
	Registry  queries.RegistryUseCase
	Logger    *slog.Logger
}

func (h Handler) AddVoterHandler(ctx context.Context, caller string, req httptransport.AddVoterRequest) (httptransport.VoterResponse, error) {
	voter, err := h.Elections.AddVoter(ctx, commands.AddVoterCommand{
		Caller:  caller,
		Address: req.Address,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) GetVoterHandler(ctx context.Context, caller string, address string) (httptransport.VoterResponse, error) {
	voter, err := h.Registry.GetVoter(ctx, caller, address)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) AddProposalHandler(ctx context.Context, caller string, req httptransport.AddProposalRequest) (httptransport.ProposalResponse, error) {
	proposal, err := h.Elections.AddProposal(ctx, commands.AddProposalCommand{
		Caller:      caller,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(proposal), nil
}

func (h Handler) GetOneProposalHandler(ctx context.Context, caller string, proposalID int) (httptransport.ProposalResponse, error) {
	proposal, err := h.Registry.GetOneProposal(ctx, caller, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(proposal), nil
}

func (h Handler) SetVoteHandler(ctx context.Context, caller string, req httptransport.SetVoteRequest) (httptransport.VoterResponse, error) {
	if req.ProposalID == nil {
		return httptransport.VoterResponse{}, domainerrors.ErrInvalidRequest
	}
	voter, err := h.Elections.SetVote(ctx, commands.SetVoteCommand{
		Caller:     caller,
		ProposalID: *req.ProposalID,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) StartProposalsRegisteringHandler(ctx context.Context, caller string) (httptransport.TransitionResponse, error) {
	return mapTransition(h.Elections.StartProposalsRegistering(ctx, commands.AdminCommand{Caller: caller}))
}

func (h Handler) EndProposalsRegisteringHandler(ctx context.Context, caller string) (httptransport.TransitionResponse, error) {
	return mapTransition(h.Elections.EndProposalsRegistering(ctx, commands.AdminCommand{Caller: caller}))
}

func (h Handler) StartVotingSessionHandler(ctx context.Context, caller string) (httptransport.TransitionResponse, error) {
	return mapTransition(h.Elections.StartVotingSession(ctx, commands.AdminCommand{Caller: caller}))
}

func (h Handler) EndVotingSessionHandler(ctx context.Context, caller string) (httptransport.TransitionResponse, error) {
	return mapTransition(h.Elections.EndVotingSession(ctx, commands.AdminCommand{Caller: caller}))
}

func (h Handler) TallyVotesHandler(ctx context.Context, caller string) (httptransport.TallyResponse, error) {
	result, err := h.Elections.TallyVotes(ctx, commands.AdminCommand{Caller: caller})
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	transition, _ := mapTransition(result.TransitionResult, nil)
	return httptransport.TallyResponse{
		TransitionResponse: transition,
		WinningProposalID:  result.WinningProposalID,
	}, nil
}

func (h Handler) WorkflowStatusHandler(ctx context.Context) (httptransport.WorkflowStatusResponse, error) {
	status, err := h.Registry.GetWorkflowStatus(ctx)
	if err != nil {
		return httptransport.WorkflowStatusResponse{}, err
	}
	return mapStatus(status), nil
}

func (h Handler) WinnerHandler(ctx context.Context) (httptransport.WinnerResponse, error) {
	winner, err := h.Registry.GetWinningProposalID(ctx)
	if err != nil {
		return httptransport.WinnerResponse{}, err
	}
	return httptransport.WinnerResponse{
		WinningProposalID: winner.ProposalID,
		Tallied:           winner.Tallied,
	}, nil
}

func (h Handler) OwnerHandler(ctx context.Context) (httptransport.OwnerResponse, error) {
	owner, err := h.Registry.GetOwner(ctx)
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{Owner: owner}, nil
}

func (h Handler) SummaryHandler(ctx context.Context) (httptransport.SummaryResponse, error) {
	summary, err := h.Registry.GetSummary(ctx)
	if err != nil {
		return httptransport.SummaryResponse{}, err
	}
	response := httptransport.SummaryResponse{
		ElectionID:     summary.ElectionID,
		Owner:          summary.Owner,
		WorkflowStatus: mapStatus(summary.Status),
		VoterCount:     summary.VoterCount,
		VotedCount:     summary.VotedCount,
		ProposalCount:  summary.ProposalCount,
		Tallied:        summary.Tallied,
	}
	if summary.Tallied {
		winner := summary.WinningProposalID
		response.WinningProposalID = &winner
	}
	return response, nil
}

func mapVoter(voter entities.Voter) httptransport.VoterResponse {
	return httptransport.VoterResponse{
		Address:         voter.Address,
		IsRegistered:    voter.IsRegistered,
		HasVoted:        voter.HasVoted,
		VotedProposalID: voter.VotedProposalID,
	}
}

func mapProposal(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:  proposal.ProposalID,
		Description: proposal.Description,
		VoteCount:   proposal.VoteCount,
	}
}

func mapStatus(status entities.WorkflowStatus) httptransport.WorkflowStatusResponse {
	return httptransport.WorkflowStatusResponse{
		Status:     status.String(),
		StatusCode: int(status),
	}
}

func mapTransition(result commands.TransitionResult, err error) (httptransport.TransitionResponse, error) {
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{
		PreviousStatus: mapStatus(result.PreviousStatus),
		NewStatus:      mapStatus(result.NewStatus),
	}, nil
}
