package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	electionhttp "votingregistry/contexts/governance/election-registry/transport/http"
)

const callerHeader = "X-Caller-Address"

// handleAddVoter godoc
// @Summary Register a voter
// @Tags election
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Caller address (owner)"
// @Param request body electionhttp.AddVoterRequest true "Voter"
// @Success 200 {object} electionhttp.VoterResponse
// @Failure 400 {object} electionhttp.ErrorResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/voters [post]
func (s *Server) handleAddVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req electionhttp.AddVoterRequest
	if !decodeElectionRequest(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.AddVoterHandler(r.Context(), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetVoter godoc
// @Summary Get a voter record
// @Tags election
// @Produce json
// @Param X-Caller-Address header string true "Caller address (registered voter)"
// @Param address path string true "Voter address"
// @Success 200 {object} electionhttp.VoterResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/voters/{address} [get]
func (s *Server) handleGetVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.GetVoterHandler(r.Context(), caller, r.PathValue("address"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Open proposal registration
// @Tags election
// @Produce json
// @Param X-Caller-Address header string true "Caller address (owner)"
// @Success 200 {object} electionhttp.TransitionResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/proposals-registration/start [post]
func (s *Server) handleStartProposalsRegistering(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.StartProposalsRegisteringHandler(r.Context(), caller)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Close proposal registration
// @Tags election
// @Produce json
// @Param X-Caller-Address header string true "Caller address (owner)"
// @Success 200 {object} electionhttp.TransitionResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/proposals-registration/end [post]
func (s *Server) handleEndProposalsRegistering(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.EndProposalsRegisteringHandler(r.Context(), caller)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Open the voting session
// @Tags election
// @Produce json
// @Param X-Caller-Address header string true "Caller address (owner)"
// @Success 200 {object} electionhttp.TransitionResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/voting-session/start [post]
func (s *Server) handleStartVotingSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.StartVotingSessionHandler(r.Context(), caller)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Close the voting session
// @Tags election
// @Produce json
// @Param X-Caller-Address header string true "Caller address (owner)"
// @Success 200 {object} electionhttp.TransitionResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/voting-session/end [post]
func (s *Server) handleEndVotingSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.EndVotingSessionHandler(r.Context(), caller)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Tally votes and fix the winner
// @Tags election
// @Produce json
// @Param X-Caller-Address header string true "Caller address (owner)"
// @Success 200 {object} electionhttp.TallyResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/tally [post]
func (s *Server) handleTallyVotes(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.TallyVotesHandler(r.Context(), caller)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Register a proposal
// @Tags election
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Caller address (registered voter)"
// @Param request body electionhttp.AddProposalRequest true "Proposal"
// @Success 200 {object} electionhttp.ProposalResponse
// @Failure 400 {object} electionhttp.ErrorResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/proposals [post]
func (s *Server) handleAddProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req electionhttp.AddProposalRequest
	if !decodeElectionRequest(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.AddProposalHandler(r.Context(), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Get a proposal
// @Tags election
// @Produce json
// @Param X-Caller-Address header string true "Caller address (registered voter)"
// @Param proposal_id path int true "Proposal id"
// @Success 200 {object} electionhttp.ProposalResponse
// @Failure 400 {object} electionhttp.ErrorResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 404 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/proposals/{proposal_id} [get]
func (s *Server) handleGetOneProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	proposalID, err := strconv.Atoi(r.PathValue("proposal_id"))
	if err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an integer")
		return
	}
	resp, err := s.election.Handler.GetOneProposalHandler(r.Context(), caller, proposalID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Cast a vote
// @Tags election
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Caller address (registered voter)"
// @Param request body electionhttp.SetVoteRequest true "Vote"
// @Success 200 {object} electionhttp.VoterResponse
// @Failure 400 {object} electionhttp.ErrorResponse
// @Failure 403 {object} electionhttp.ErrorResponse
// @Failure 404 {object} electionhttp.ErrorResponse
// @Failure 409 {object} electionhttp.ErrorResponse
// @Router /api/election/v1/votes [post]
func (s *Server) handleSetVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req electionhttp.SetVoteRequest
	if !decodeElectionRequest(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.SetVoteHandler(r.Context(), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Current workflow status
// @Tags election
// @Produce json
// @Success 200 {object} electionhttp.WorkflowStatusResponse
// @Router /api/election/v1/workflow-status [get]
func (s *Server) handleWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.WorkflowStatusHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Winning proposal
// @Tags election
// @Produce json
// @Success 200 {object} electionhttp.WinnerResponse
// @Router /api/election/v1/winner [get]
func (s *Server) handleWinner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.WinnerHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Election owner
// @Tags election
// @Produce json
// @Success 200 {object} electionhttp.OwnerResponse
// @Router /api/election/v1/owner [get]
func (s *Server) handleOwner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.OwnerHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Election summary
// @Tags election
// @Produce json
// @Success 200 {object} electionhttp.SummaryResponse
// @Router /api/election/v1/summary [get]
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.SummaryHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get(callerHeader))
	if caller == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_caller", callerHeader+" header is required")
		return "", false
	}
	return caller, true
}

func decodeElectionRequest(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}
