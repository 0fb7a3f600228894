package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "votingregistry/contexts/governance/election-registry/application"
	"votingregistry/contexts/governance/election-registry/domain/entities"
	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
	"votingregistry/contexts/governance/election-registry/ports"
)

// AdminCommand drives one administrator-only workflow transition.
type AdminCommand struct {
	Caller string
}

// ElectionUseCase applies every state-changing election operation. Each call
// is one UpdateElection unit: the aggregate change and its notification are
// committed together or not at all.
type ElectionUseCase struct {
	Elections  ports.ElectionRepository
	Addresses  ports.AddressResolver
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	ElectionID string
	Logger     *slog.Logger
}

// EnsureElection provisions the election owned by owner. It is safe to call
// on every start; an existing election must already belong to owner.
func (uc ElectionUseCase) EnsureElection(ctx context.Context, owner string) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	normalizedOwner, err := uc.normalizeAddress(owner)
	if err != nil {
		logger.Warn("election owner rejected",
			"event", "election_ensure_owner_invalid",
			"module", "governance/election-registry",
			"layer", "application",
			"election_id", uc.electionID(),
		)
		return entities.Election{}, err
	}

	existing, err := uc.Elections.GetElection(ctx, uc.electionID())
	switch {
	case err == nil:
		if existing.Owner != normalizedOwner {
			logger.Error("election owned by another address",
				"event", "election_ensure_owner_mismatch",
				"module", "governance/election-registry",
				"layer", "application",
				"election_id", existing.ElectionID,
				"owner", existing.Owner,
				"requested_owner", normalizedOwner,
			)
			return entities.Election{}, domainerrors.ErrOwnerMismatch
		}
		return existing, nil
	case !errors.Is(err, domainerrors.ErrElectionNotFound):
		return entities.Election{}, err
	}

	election := entities.NewElection(uc.electionID(), normalizedOwner, uc.now())
	if err := uc.Elections.CreateElection(ctx, election); err != nil {
		if errors.Is(err, domainerrors.ErrElectionAlreadyExists) {
			// Lost a race with another process; re-read and verify ownership.
			return uc.EnsureElection(ctx, owner)
		}
		return entities.Election{}, err
	}
	logger.Info("election created",
		"event", "election_created",
		"module", "governance/election-registry",
		"layer", "application",
		"election_id", election.ElectionID,
		"owner", election.Owner,
	)
	return election, nil
}

// apply runs operation against the election inside one repository update.
func (uc ElectionUseCase) apply(
	ctx context.Context,
	operation string,
	caller string,
	attrs []any,
	mutate func(*entities.Election) (entities.Event, error),
) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	fields := append([]any{
		"module", "governance/election-registry",
		"layer", "application",
		"election_id", uc.electionID(),
		"operation", operation,
		"caller", caller,
	}, attrs...)
	logger.Info("election operation started", append([]any{"event", "election_" + operation + "_started"}, fields...)...)

	election, err := uc.Elections.UpdateElection(ctx, uc.electionID(), func(election *entities.Election) ([]ports.EventEnvelope, error) {
		event, err := mutate(election)
		if err != nil {
			return nil, err
		}
		// Read the clock under the repository lock so timestamps follow commit order.
		now := uc.now()
		election.UpdatedAt = now
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		envelope, err := newElectionEnvelope(eventID, event, now)
		if err != nil {
			return nil, err
		}
		return []ports.EventEnvelope{envelope}, nil
	})
	if err != nil {
		if isRejection(err) {
			logger.Warn("election operation rejected", append([]any{
				"event", "election_" + operation + "_rejected",
				"error", err.Error(),
			}, fields...)...)
		} else {
			logger.Error("election operation failed", append([]any{
				"event", "election_" + operation + "_failed",
				"error", err.Error(),
			}, fields...)...)
		}
		return entities.Election{}, err
	}

	logger.Info("election operation applied", append([]any{
		"event", "election_" + operation + "_applied",
		"workflow_status", election.Status.String(),
	}, fields...)...)
	return election, nil
}

func (uc ElectionUseCase) resolveCaller(raw string) string {
	normalized, err := uc.normalizeAddress(raw)
	if err != nil {
		// An unparseable caller can hold no role; the aggregate rejects it.
		return strings.TrimSpace(raw)
	}
	return normalized
}

func (uc ElectionUseCase) normalizeAddress(raw string) (string, error) {
	if uc.Addresses == nil {
		value := strings.TrimSpace(raw)
		if value == "" {
			return "", domainerrors.ErrInvalidAddress
		}
		return value, nil
	}
	return uc.Addresses.Normalize(raw)
}

func (uc ElectionUseCase) electionID() string {
	if id := strings.TrimSpace(uc.ElectionID); id != "" {
		return id
	}
	return "default"
}

func (uc ElectionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func isRejection(err error) bool {
	for _, target := range []error{
		domainerrors.ErrNotOwner,
		domainerrors.ErrNotVoter,
		domainerrors.ErrWorkflowStatusMismatch,
		domainerrors.ErrEmptyProposal,
		domainerrors.ErrInvalidAddress,
		domainerrors.ErrProposalNotFound,
		domainerrors.ErrVoterAlreadyRegistered,
		domainerrors.ErrAlreadyVoted,
		domainerrors.ErrElectionNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
