package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	electionregistry "votingregistry/contexts/governance/election-registry"
	electiondomainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
	electionhttp "votingregistry/contexts/governance/election-registry/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "votingregistry/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	httpServer *http.Server
	logger     *slog.Logger
	addr       string
	election   electionregistry.Module
}

func New(
	election electionregistry.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		election: election,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called, after which it returns
// http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed mux, mainly for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/election/v1/voters", s.handleAddVoter)
	s.mux.HandleFunc("GET /api/election/v1/voters/{address}", s.handleGetVoter)
	s.mux.HandleFunc("POST /api/election/v1/proposals-registration/start", s.handleStartProposalsRegistering)
	s.mux.HandleFunc("POST /api/election/v1/proposals-registration/end", s.handleEndProposalsRegistering)
	s.mux.HandleFunc("POST /api/election/v1/voting-session/start", s.handleStartVotingSession)
	s.mux.HandleFunc("POST /api/election/v1/voting-session/end", s.handleEndVotingSession)
	s.mux.HandleFunc("POST /api/election/v1/tally", s.handleTallyVotes)
	s.mux.HandleFunc("POST /api/election/v1/proposals", s.handleAddProposal)
	s.mux.HandleFunc("GET /api/election/v1/proposals/{proposal_id}", s.handleGetOneProposal)
	s.mux.HandleFunc("POST /api/election/v1/votes", s.handleSetVote)
	s.mux.HandleFunc("GET /api/election/v1/workflow-status", s.handleWorkflowStatus)
	s.mux.HandleFunc("GET /api/election/v1/winner", s.handleWinner)
	s.mux.HandleFunc("GET /api/election/v1/owner", s.handleOwner)
	s.mux.HandleFunc("GET /api/election/v1/summary", s.handleSummary)
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electiondomainerrors.ErrNotOwner):
		writeElectionError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, electiondomainerrors.ErrNotVoter):
		writeElectionError(w, http.StatusForbidden, "not_voter", err.Error())
	case errors.Is(err, electiondomainerrors.ErrWorkflowStatusMismatch):
		writeElectionError(w, http.StatusConflict, "workflow_status_mismatch", err.Error())
	case errors.Is(err, electiondomainerrors.ErrEmptyProposal):
		writeElectionError(w, http.StatusBadRequest, "empty_proposal", err.Error())
	case errors.Is(err, electiondomainerrors.ErrInvalidAddress):
		writeElectionError(w, http.StatusBadRequest, "invalid_address", err.Error())
	case errors.Is(err, electiondomainerrors.ErrInvalidRequest):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electiondomainerrors.ErrProposalNotFound):
		writeElectionError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, electiondomainerrors.ErrElectionNotFound):
		writeElectionError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, electiondomainerrors.ErrVoterAlreadyRegistered):
		writeElectionError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, electiondomainerrors.ErrAlreadyVoted):
		writeElectionError(w, http.StatusConflict, "already_voted", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
