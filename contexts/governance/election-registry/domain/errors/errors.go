package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotOwner               = errors.New("caller is not the owner")
	ErrNotVoter               = errors.New("you're not a voter")
	ErrWorkflowStatusMismatch = errors.New("workflow status mismatch")
	ErrEmptyProposal          = errors.New("proposal description must not be empty")
	ErrInvalidAddress         = errors.New("invalid address")
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrVoterAlreadyRegistered = errors.New("already registered")
	ErrAlreadyVoted           = errors.New("you have already voted")
	ErrElectionNotFound       = errors.New("election not found")
	ErrElectionAlreadyExists  = errors.New("election already exists")
	ErrOwnerMismatch          = errors.New("election is owned by another address")
	ErrConflict               = errors.New("election conflict")
	ErrInvalidRequest         = errors.New("invalid request")
)

// WorkflowStatusError rejects an operation attempted outside its phase.
// It unwraps to ErrWorkflowStatusMismatch.
type WorkflowStatusError struct {
	Operation string
	Expected  string
	Current   string
}

func (e *WorkflowStatusError) Error() string {
	return fmt.Sprintf("%s requires workflow status %s (current: %s)", e.Operation, e.Expected, e.Current)
}

func (e *WorkflowStatusError) Unwrap() error {
	return ErrWorkflowStatusMismatch
}
