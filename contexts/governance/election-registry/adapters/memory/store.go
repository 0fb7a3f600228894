package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"votingregistry/contexts/governance/election-registry/domain/entities"
	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
	"votingregistry/contexts/governance/election-registry/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	seq       int64
	published bool
}

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

// Store keeps elections, their outbox and consumer dedup markers behind one
// lock, so an election update and its outbox rows commit together.
type Store struct {
	mu sync.RWMutex

	// Clock drives dedup expiry and outbox fallback timestamps; nil means
	// the system clock.
	Clock ports.Clock

	elections  map[string]entities.Election
	outbox     map[string]outboxRecord
	outboxSeq  int64
	eventDedup map[string]dedupRecord
}

func NewStore(seed []entities.Election) *Store {
	elections := make(map[string]entities.Election, len(seed))
	for _, election := range seed {
		elections[strings.TrimSpace(election.ElectionID)] = election.Clone()
	}
	return &Store{
		elections:  elections,
		outbox:     make(map[string]outboxRecord),
		eventDedup: make(map[string]dedupRecord),
	}
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(election.ElectionID)
	if _, exists := s.elections[key]; exists {
		return domainerrors.ErrElectionAlreadyExists
	}
	s.elections[key] = election.Clone()
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election.Clone(), nil
}

func (s *Store) UpdateElection(
	_ context.Context,
	electionID string,
	mutate ports.MutateFunc,
) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(electionID)
	current, ok := s.elections[key]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	working := current.Clone()
	envelopes, err := mutate(&working)
	if err != nil {
		return entities.Election{}, err
	}

	rows := make([]outboxRecord, 0, len(envelopes))
	for _, envelope := range envelopes {
		row, err := s.outboxRow(envelope)
		if err != nil {
			return entities.Election{}, err
		}
		rows = append(rows, row)
	}

	s.elections[key] = working
	for _, row := range rows {
		s.outboxSeq++
		row.seq = s.outboxSeq
		s.outbox[row.message.OutboxID] = row
	}
	return working.Clone(), nil
}

// outboxRow builds the record for envelope; callers hold the write lock.
func (s *Store) outboxRow(envelope ports.EventEnvelope) (outboxRecord, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxRecord{}, err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok && !bytes.Equal(existing.message.Payload, payload) {
		return outboxRecord{}, domainerrors.ErrConflict
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.Now()
	}
	return outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		rows = append(rows, row)
	}
	// seq is assigned under the write lock, so it is the commit order.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].seq < rows[j].seq
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) ReserveEvent(
	_ context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(eventID)
	existing, ok := s.eventDedup[key]
	if ok {
		if !existing.expiresAt.IsZero() && s.Now().After(existing.expiresAt.UTC()) {
			delete(s.eventDedup, key)
		} else {
			if existing.payloadHash != strings.TrimSpace(payloadHash) {
				return false, domainerrors.ErrConflict
			}
			return true, nil
		}
	}

	s.eventDedup[key] = dedupRecord{
		payloadHash: strings.TrimSpace(payloadHash),
		expiresAt:   expiresAt.UTC(),
	}
	return false, nil
}

func (s *Store) Now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
