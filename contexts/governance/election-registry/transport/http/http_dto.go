package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AddVoterRequest struct {
	Address string `json:"address"`
}

type VoterResponse struct {
	Address         string `json:"address"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID int    `json:"voted_proposal_id"`
}

type AddProposalRequest struct {
	Description string `json:"description"`
}

type ProposalResponse struct {
	ProposalID  int    `json:"proposal_id"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
}

type SetVoteRequest struct {
	ProposalID *int `json:"proposal_id"`
}

type WorkflowStatusResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
}

type TransitionResponse struct {
	PreviousStatus WorkflowStatusResponse `json:"previous_status"`
	NewStatus      WorkflowStatusResponse `json:"new_status"`
}

type TallyResponse struct {
	TransitionResponse
	WinningProposalID int `json:"winning_proposal_id"`
}

type WinnerResponse struct {
	WinningProposalID int  `json:"winning_proposal_id"`
	Tallied           bool `json:"tallied"`
}

type OwnerResponse struct {
	Owner string `json:"owner"`
}

type SummaryResponse struct {
	ElectionID        string                 `json:"election_id"`
	Owner             string                 `json:"owner"`
	WorkflowStatus    WorkflowStatusResponse `json:"workflow_status"`
	VoterCount        int                    `json:"voter_count"`
	VotedCount        int                    `json:"voted_count"`
	ProposalCount     int                    `json:"proposal_count"`
	WinningProposalID *int                   `json:"winning_proposal_id,omitempty"`
	Tallied           bool                   `json:"tallied"`
}
