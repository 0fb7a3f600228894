package entities

import (
	"strings"
	"time"

	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
)

// GenesisDescription is the description of the placeholder proposal that
// opens every proposal registry at id 0.
const GenesisDescription = "GENESIS"

type Voter struct {
	Address         string
	IsRegistered    bool
	HasVoted        bool
	VotedProposalID int
}

type Proposal struct {
	ProposalID  int
	Description string
	VoteCount   int
}

// Election is the registry aggregate: workflow status, voters, proposals and
// the tallied winner. Every mutating method checks all of its preconditions
// before touching state, so a rejected call leaves the aggregate unchanged.
type Election struct {
	ElectionID        string
	Owner             string
	Status            WorkflowStatus
	Voters            map[string]Voter
	Proposals         []Proposal
	WinningProposalID int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewElection(electionID string, owner string, now time.Time) Election {
	return Election{
		ElectionID: strings.TrimSpace(electionID),
		Owner:      strings.TrimSpace(owner),
		Status:     WorkflowStatusRegisteringVoters,
		Voters:     make(map[string]Voter),
		Proposals:  make([]Proposal, 0),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
}

// Clone returns a deep copy safe to mutate independently.
func (e Election) Clone() Election {
	out := e
	out.Voters = make(map[string]Voter, len(e.Voters))
	for address, voter := range e.Voters {
		out.Voters[address] = voter
	}
	out.Proposals = append(make([]Proposal, 0, len(e.Proposals)), e.Proposals...)
	return out
}

func (e Election) IsRegistered(address string) bool {
	return e.Voters[address].IsRegistered
}

func (e Election) Tallied() bool {
	return e.Status == WorkflowStatusVotesTallied
}

// WinningProposal returns the tallied winner; ok is false before the tally.
func (e Election) WinningProposal() (int, bool) {
	if !e.Tallied() {
		return 0, false
	}
	return e.WinningProposalID, true
}

func (e *Election) AddVoter(caller string, address string) (VoterRegistered, error) {
	if err := e.requireOwner(caller); err != nil {
		return VoterRegistered{}, err
	}
	if err := e.requireStatus("addVoter", WorkflowStatusRegisteringVoters); err != nil {
		return VoterRegistered{}, err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return VoterRegistered{}, domainerrors.ErrInvalidAddress
	}
	if e.IsRegistered(address) {
		return VoterRegistered{}, domainerrors.ErrVoterAlreadyRegistered
	}
	if e.Voters == nil {
		e.Voters = make(map[string]Voter)
	}
	e.Voters[address] = Voter{Address: address, IsRegistered: true}
	return VoterRegistered{ElectionID: e.ElectionID, VoterAddress: address}, nil
}

// Voter returns the record for address as seen by a registered caller.
// Unknown addresses yield the zero record.
func (e Election) Voter(caller string, address string) (Voter, error) {
	if err := e.requireVoter(caller); err != nil {
		return Voter{}, err
	}
	voter, ok := e.Voters[address]
	if !ok {
		return Voter{Address: address}, nil
	}
	return voter, nil
}

func (e *Election) AddProposal(caller string, description string) (ProposalRegistered, error) {
	if err := e.requireVoter(caller); err != nil {
		return ProposalRegistered{}, err
	}
	if err := e.requireStatus("addProposal", WorkflowStatusProposalsRegistrationStarted); err != nil {
		return ProposalRegistered{}, err
	}
	if description == "" {
		return ProposalRegistered{}, domainerrors.ErrEmptyProposal
	}
	id := len(e.Proposals)
	e.Proposals = append(e.Proposals, Proposal{ProposalID: id, Description: description})
	return ProposalRegistered{ElectionID: e.ElectionID, ProposalID: id}, nil
}

func (e Election) Proposal(caller string, proposalID int) (Proposal, error) {
	if err := e.requireVoter(caller); err != nil {
		return Proposal{}, err
	}
	if proposalID < 0 || proposalID >= len(e.Proposals) {
		return Proposal{}, domainerrors.ErrProposalNotFound
	}
	return e.Proposals[proposalID], nil
}

// SetVote records the caller's single ballot. The voter flags and the
// proposal counter are written together after every check has passed.
func (e *Election) SetVote(caller string, proposalID int) (Voted, error) {
	if err := e.requireVoter(caller); err != nil {
		return Voted{}, err
	}
	if err := e.requireStatus("setVote", WorkflowStatusVotingSessionStarted); err != nil {
		return Voted{}, err
	}
	voter := e.Voters[caller]
	if voter.HasVoted {
		return Voted{}, domainerrors.ErrAlreadyVoted
	}
	if proposalID < 0 || proposalID >= len(e.Proposals) {
		return Voted{}, domainerrors.ErrProposalNotFound
	}

	voter.HasVoted = true
	voter.VotedProposalID = proposalID
	e.Voters[caller] = voter
	e.Proposals[proposalID].VoteCount++
	return Voted{ElectionID: e.ElectionID, VoterAddress: caller, ProposalID: proposalID}, nil
}

// StartProposalsRegistering opens the proposal phase and seeds GENESIS as id 0.
func (e *Election) StartProposalsRegistering(caller string) (WorkflowStatusChanged, error) {
	change, err := e.advance(caller, "startProposalsRegistering", WorkflowStatusRegisteringVoters)
	if err != nil {
		return WorkflowStatusChanged{}, err
	}
	e.Proposals = []Proposal{{ProposalID: 0, Description: GenesisDescription}}
	return change, nil
}

func (e *Election) EndProposalsRegistering(caller string) (WorkflowStatusChanged, error) {
	return e.advance(caller, "endProposalsRegistering", WorkflowStatusProposalsRegistrationStarted)
}

func (e *Election) StartVotingSession(caller string) (WorkflowStatusChanged, error) {
	return e.advance(caller, "startVotingSession", WorkflowStatusProposalsRegistrationEnded)
}

func (e *Election) EndVotingSession(caller string) (WorkflowStatusChanged, error) {
	return e.advance(caller, "endVotingSession", WorkflowStatusVotingSessionStarted)
}

// TallyVotes picks the proposal with the strictly greatest count, scanning
// ids in ascending order, so ties go to the lowest id.
func (e *Election) TallyVotes(caller string) (WorkflowStatusChanged, error) {
	change, err := e.advance(caller, "tallyVotes", WorkflowStatusVotingSessionEnded)
	if err != nil {
		return WorkflowStatusChanged{}, err
	}
	winner := SelectWinner(e.Proposals)
	e.WinningProposalID = winner
	change.WinningProposalID = &winner
	return change, nil
}

func SelectWinner(proposals []Proposal) int {
	winner := 0
	best := 0
	for i, proposal := range proposals {
		if i == 0 || proposal.VoteCount > best {
			winner = proposal.ProposalID
			best = proposal.VoteCount
		}
	}
	return winner
}

func (e *Election) advance(caller string, operation string, from WorkflowStatus) (WorkflowStatusChanged, error) {
	if err := e.requireOwner(caller); err != nil {
		return WorkflowStatusChanged{}, err
	}
	if err := e.requireStatus(operation, from); err != nil {
		return WorkflowStatusChanged{}, err
	}
	to, ok := from.next()
	if !ok {
		return WorkflowStatusChanged{}, &domainerrors.WorkflowStatusError{
			Operation: operation,
			Expected:  from.String(),
			Current:   e.Status.String(),
		}
	}
	e.Status = to
	return WorkflowStatusChanged{
		ElectionID:     e.ElectionID,
		PreviousStatus: from,
		NewStatus:      to,
	}, nil
}

func (e Election) requireOwner(caller string) error {
	if caller == "" || caller != e.Owner {
		return domainerrors.ErrNotOwner
	}
	return nil
}

func (e Election) requireVoter(caller string) error {
	if caller == "" || !e.IsRegistered(caller) {
		return domainerrors.ErrNotVoter
	}
	return nil
}

func (e Election) requireStatus(operation string, expected WorkflowStatus) error {
	if e.Status != expected {
		return &domainerrors.WorkflowStatusError{
			Operation: operation,
			Expected:  expected.String(),
			Current:   e.Status.String(),
		}
	}
	return nil
}
