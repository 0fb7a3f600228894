package postgresadapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"votingregistry/contexts/governance/election-registry/domain/entities"
	domainerrors "votingregistry/contexts/governance/election-registry/domain/errors"
	"votingregistry/contexts/governance/election-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the election tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(
		&electionModel{},
		&voterModel{},
		&proposalModel{},
		&outboxModel{},
		&eventDedupModel{},
	); err != nil {
		return r.logError("election_repo_migrate_failed", err)
	}
	return nil
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "election_id"}},
			DoNothing: true,
		}).Create(&row)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected == 0 {
			return domainerrors.ErrElectionAlreadyExists
		}
		if voters := voterModelsFromEntity(election); len(voters) > 0 {
			if err := tx.Create(&voters).Error; err != nil {
				return err
			}
		}
		if proposals := proposalModelsFromEntity(election); len(proposals) > 0 {
			if err := tx.Create(&proposals).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionAlreadyExists) || isUniqueViolation(err) {
			return domainerrors.ErrElectionAlreadyExists
		}
		return r.logError("election_repo_create_election_failed", err, "election_id", row.ElectionID)
	}
	return nil
}

// GetElection reads the election, its voters and proposals in one snapshot.
func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var election entities.Election
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := loadElection(tx, strings.TrimSpace(electionID))
		if err != nil {
			return err
		}
		election = loaded
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return entities.Election{}, err
		}
		return entities.Election{}, r.logError("election_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return election, nil
}

// UpdateElection locks the election row, applies mutate to the loaded
// aggregate and writes the changed rows together with the outbox entries.
func (r *Repository) UpdateElection(
	ctx context.Context,
	electionID string,
	mutate ports.MutateFunc,
) (entities.Election, error) {
	electionID = strings.TrimSpace(electionID)
	var updated entities.Election
	var rejected error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := loadElection(tx.Clauses(clause.Locking{Strength: "UPDATE"}), electionID)
		if err != nil {
			return err
		}
		after := before.Clone()
		envelopes, err := mutate(&after)
		if err != nil {
			rejected = err
			return err
		}

		if err := tx.Model(&electionModel{}).
			Where("election_id = ?", electionID).
			Updates(electionUpdatesFromEntity(after)).
			Error; err != nil {
			return err
		}
		if voters := changedVoters(before, after); len(voters) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "election_id"}, {Name: "address"}},
				DoUpdates: clause.AssignmentColumns([]string{"is_registered", "has_voted", "voted_proposal_id"}),
			}).Create(&voters).Error; err != nil {
				return err
			}
		}
		if len(after.Proposals) < len(before.Proposals) {
			if err := tx.Where("election_id = ? AND proposal_id >= ?", electionID, len(after.Proposals)).
				Delete(&proposalModel{}).Error; err != nil {
				return err
			}
		}
		if proposals := changedProposals(before, after); len(proposals) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "election_id"}, {Name: "proposal_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"description", "vote_count"}),
			}).Create(&proposals).Error; err != nil {
				return err
			}
		}
		for _, envelope := range envelopes {
			row, err := outboxModelFromEnvelope(envelope)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		updated = after
		return nil
	})
	if err != nil {
		if rejected != nil {
			return entities.Election{}, rejected
		}
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return entities.Election{}, err
		}
		if isUniqueViolation(err) {
			return entities.Election{}, domainerrors.ErrConflict
		}
		return entities.Election{}, r.logError("election_repo_update_election_failed", err,
			"election_id", electionID,
		)
	}
	return updated, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		// seq is drawn while the election row lock is held, so it follows commit order.
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return false, r.logError("election_repo_reserve_event_failed", create.Error,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	if create.RowsAffected > 0 {
		return false, nil
	}
	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", row.EventID).
		First(&existing).Error; err != nil {
		return false, r.logError("election_repo_reserve_event_load_existing_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	if existing.PayloadHash != row.PayloadHash {
		return false, domainerrors.ErrConflict
	}
	return true, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/election-registry",
		"layer", "adapter",
		"error", err.Error(),
	)
	if isUndefinedTable(err) {
		fields = append(fields, "hint", "run with AUTO_MIGRATE=true")
	}
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func loadElection(tx *gorm.DB, electionID string) (entities.Election, error) {
	var row electionModel
	if err := tx.Where("election_id = ?", electionID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, err
	}
	var voters []voterModel
	if err := tx.Session(&gorm.Session{NewDB: true}).
		Where("election_id = ?", electionID).
		Find(&voters).Error; err != nil {
		return entities.Election{}, err
	}
	var proposals []proposalModel
	if err := tx.Session(&gorm.Session{NewDB: true}).
		Where("election_id = ?", electionID).
		Order("proposal_id ASC").
		Find(&proposals).Error; err != nil {
		return entities.Election{}, err
	}
	return row.toEntity(voters, proposals), nil
}

type electionModel struct {
	ElectionID        string    `gorm:"column:election_id;primaryKey"`
	Owner             string    `gorm:"column:owner;not null"`
	Status            int       `gorm:"column:status;not null"`
	WinningProposalID int       `gorm:"column:winning_proposal_id;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	row := electionModel{
		ElectionID:        strings.TrimSpace(election.ElectionID),
		Owner:             strings.TrimSpace(election.Owner),
		Status:            int(election.Status),
		WinningProposalID: election.WinningProposalID,
		CreatedAt:         election.CreatedAt.UTC(),
		UpdatedAt:         election.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func electionUpdatesFromEntity(election entities.Election) map[string]any {
	return map[string]any{
		"status":              int(election.Status),
		"winning_proposal_id": election.WinningProposalID,
		"updated_at":          election.UpdatedAt.UTC(),
	}
}

func (m electionModel) toEntity(voters []voterModel, proposals []proposalModel) entities.Election {
	election := entities.Election{
		ElectionID:        m.ElectionID,
		Owner:             m.Owner,
		Status:            entities.WorkflowStatus(m.Status),
		Voters:            make(map[string]entities.Voter, len(voters)),
		Proposals:         make([]entities.Proposal, 0, len(proposals)),
		WinningProposalID: m.WinningProposalID,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
	for _, voter := range voters {
		election.Voters[voter.Address] = voter.toEntity()
	}
	for _, proposal := range proposals {
		election.Proposals = append(election.Proposals, proposal.toEntity())
	}
	return election
}

type voterModel struct {
	ElectionID      string `gorm:"column:election_id;primaryKey"`
	Address         string `gorm:"column:address;primaryKey"`
	IsRegistered    bool   `gorm:"column:is_registered;not null"`
	HasVoted        bool   `gorm:"column:has_voted;not null"`
	VotedProposalID int    `gorm:"column:voted_proposal_id;not null;default:0"`
}

func (voterModel) TableName() string {
	return "election_voters"
}

func (m voterModel) toEntity() entities.Voter {
	return entities.Voter{
		Address:         m.Address,
		IsRegistered:    m.IsRegistered,
		HasVoted:        m.HasVoted,
		VotedProposalID: m.VotedProposalID,
	}
}

func voterModelFromEntity(electionID string, voter entities.Voter) voterModel {
	return voterModel{
		ElectionID:      electionID,
		Address:         voter.Address,
		IsRegistered:    voter.IsRegistered,
		HasVoted:        voter.HasVoted,
		VotedProposalID: voter.VotedProposalID,
	}
}

func voterModelsFromEntity(election entities.Election) []voterModel {
	rows := make([]voterModel, 0, len(election.Voters))
	for _, voter := range election.Voters {
		rows = append(rows, voterModelFromEntity(election.ElectionID, voter))
	}
	return rows
}

type proposalModel struct {
	ElectionID  string `gorm:"column:election_id;primaryKey"`
	ProposalID  int    `gorm:"column:proposal_id;primaryKey;autoIncrement:false"`
	Description string `gorm:"column:description;not null"`
	VoteCount   int    `gorm:"column:vote_count;not null;default:0"`
}

func (proposalModel) TableName() string {
	return "election_proposals"
}

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ProposalID:  m.ProposalID,
		Description: m.Description,
		VoteCount:   m.VoteCount,
	}
}

func proposalModelFromEntity(electionID string, proposal entities.Proposal) proposalModel {
	return proposalModel{
		ElectionID:  electionID,
		ProposalID:  proposal.ProposalID,
		Description: proposal.Description,
		VoteCount:   proposal.VoteCount,
	}
}

func proposalModelsFromEntity(election entities.Election) []proposalModel {
	rows := make([]proposalModel, 0, len(election.Proposals))
	for _, proposal := range election.Proposals {
		rows = append(rows, proposalModelFromEntity(election.ElectionID, proposal))
	}
	return rows
}

// changedVoters returns the voter rows of after that differ from before.
func changedVoters(before entities.Election, after entities.Election) []voterModel {
	rows := make([]voterModel, 0)
	for address, voter := range after.Voters {
		if previous, ok := before.Voters[address]; ok && previous == voter {
			continue
		}
		rows = append(rows, voterModelFromEntity(after.ElectionID, voter))
	}
	return rows
}

// changedProposals returns the proposal rows of after that are new or differ
// from the proposal with the same id in before.
func changedProposals(before entities.Election, after entities.Election) []proposalModel {
	rows := make([]proposalModel, 0)
	for i, proposal := range after.Proposals {
		if i < len(before.Proposals) && before.Proposals[i] == proposal {
			continue
		}
		rows = append(rows, proposalModelFromEntity(after.ElectionID, proposal))
	}
	return rows
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	Seq          int64      `gorm:"column:seq;autoIncrement;uniqueIndex"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "election_event_dedup"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)
