package entities

import "fmt"

// WorkflowStatus is the election phase. Codes match the order of the
// lifecycle and never change once published.
type WorkflowStatus int

const (
	WorkflowStatusRegisteringVoters WorkflowStatus = iota
	WorkflowStatusProposalsRegistrationStarted
	WorkflowStatusProposalsRegistrationEnded
	WorkflowStatusVotingSessionStarted
	WorkflowStatusVotingSessionEnded
	WorkflowStatusVotesTallied
)

var workflowStatusNames = map[WorkflowStatus]string{
	WorkflowStatusRegisteringVoters:            "RegisteringVoters",
	WorkflowStatusProposalsRegistrationStarted: "ProposalsRegistrationStarted",
	WorkflowStatusProposalsRegistrationEnded:   "ProposalsRegistrationEnded",
	WorkflowStatusVotingSessionStarted:         "VotingSessionStarted",
	WorkflowStatusVotingSessionEnded:           "VotingSessionEnded",
	WorkflowStatusVotesTallied:                 "VotesTallied",
}

func (s WorkflowStatus) String() string {
	if name, ok := workflowStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("WorkflowStatus(%d)", int(s))
}

func (s WorkflowStatus) Valid() bool {
	_, ok := workflowStatusNames[s]
	return ok
}

func ParseWorkflowStatus(raw string) (WorkflowStatus, error) {
	for status, name := range workflowStatusNames {
		if name == raw {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown workflow status %q", raw)
}

// next is the single forward edge out of s. Every phase is listed so a new
// phase cannot be added without deciding where it leads.
func (s WorkflowStatus) next() (WorkflowStatus, bool) {
	switch s {
	case WorkflowStatusRegisteringVoters:
		return WorkflowStatusProposalsRegistrationStarted, true
	case WorkflowStatusProposalsRegistrationStarted:
		return WorkflowStatusProposalsRegistrationEnded, true
	case WorkflowStatusProposalsRegistrationEnded:
		return WorkflowStatusVotingSessionStarted, true
	case WorkflowStatusVotingSessionStarted:
		return WorkflowStatusVotingSessionEnded, true
	case WorkflowStatusVotingSessionEnded:
		return WorkflowStatusVotesTallied, true
	case WorkflowStatusVotesTallied:
		return WorkflowStatusVotesTallied, false
	default:
		return s, false
	}
}
