package entities

// Event is a notification produced by a successful election operation.
type Event interface {
	EventType() string
	PartitionKey() string
	Payload() map[string]any
}

const (
	EventTypeVoterRegistered       = "voter.registered"
	EventTypeProposalRegistered    = "proposal.registered"
	EventTypeVoted                 = "vote.cast"
	EventTypeWorkflowStatusChanged = "workflow.status_changed"
)

type VoterRegistered struct {
	ElectionID   string
	VoterAddress string
}

func (e VoterRegistered) EventType() string    { return EventTypeVoterRegistered }
func (e VoterRegistered) PartitionKey() string { return e.ElectionID }
func (e VoterRegistered) Payload() map[string]any {
	return map[string]any{
		"election_id":   e.ElectionID,
		"voter_address": e.VoterAddress,
	}
}

type ProposalRegistered struct {
	ElectionID string
	ProposalID int
}

func (e ProposalRegistered) EventType() string    { return EventTypeProposalRegistered }
func (e ProposalRegistered) PartitionKey() string { return e.ElectionID }
func (e ProposalRegistered) Payload() map[string]any {
	return map[string]any{
		"election_id": e.ElectionID,
		"proposal_id": e.ProposalID,
	}
}

type Voted struct {
	ElectionID   string
	VoterAddress string
	ProposalID   int
}

func (e Voted) EventType() string    { return EventTypeVoted }
func (e Voted) PartitionKey() string { return e.ElectionID }
func (e Voted) Payload() map[string]any {
	return map[string]any{
		"election_id":   e.ElectionID,
		"voter_address": e.VoterAddress,
		"proposal_id":   e.ProposalID,
	}
}

// WorkflowStatusChanged carries the winner only for the tally transition.
type WorkflowStatusChanged struct {
	ElectionID        string
	PreviousStatus    WorkflowStatus
	NewStatus         WorkflowStatus
	WinningProposalID *int
}

func (e WorkflowStatusChanged) EventType() string    { return EventTypeWorkflowStatusChanged }
func (e WorkflowStatusChanged) PartitionKey() string { return e.ElectionID }
func (e WorkflowStatusChanged) Payload() map[string]any {
	data := map[string]any{
		"election_id":          e.ElectionID,
		"previous_status":      e.PreviousStatus.String(),
		"previous_status_code": int(e.PreviousStatus),
		"new_status":           e.NewStatus.String(),
		"new_status_code":      int(e.NewStatus),
	}
	if e.WinningProposalID != nil {
		data["winning_proposal_id"] = *e.WinningProposalID
	}
	return data
}
