package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/infrastructure/database/sqlc_generated"
	"gamenight/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ParticipantRepository implements output.ParticipantRepository using sqlc + pgx.
type ParticipantRepository struct {
	db TxBeginner
	q  *sqlc_generated.Queries
}

func NewParticipantRepository(db TxBeginner, q *sqlc_generated.Queries) *ParticipantRepository {
	return &ParticipantRepository{db: db, q: q}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *entities.Participant) error {
	return createParticipant(ctx, r.q, participant)
}

// CreateWithinCapacity locks the event row so concurrent registrations for
// the same event count and insert one at a time.
func (r *ParticipantRepository) CreateWithinCapacity(ctx context.Context, participant *entities.Participant, capacity int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin registration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	q := r.q.WithTx(tx)

	if _, err := q.LockEventForRegistration(ctx, participant.EventID); err != nil {
		if isNoRows(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}
	count, err := q.CountActiveParticipants(ctx, participant.EventID)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if count >= int64(capacity) {
		return domain.ErrEventFull
	}
	if err := createParticipant(ctx, q, participant); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

func createParticipant(ctx context.Context, q *sqlc_generated.Queries, participant *entities.Participant) error {
	now := time.Now()
	joinedAt := participant.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = now
	}
	statusUpdatedAt := participant.StatusUpdatedAt
	if statusUpdatedAt.IsZero() {
		statusUpdatedAt = now
	}
	status := participant.Status
	if status == "" {
		status = domain.StatusRegistered
	}
	role := participant.Role
	if role == "" {
		role = domain.RoleParticipant
	}
	row, err := q.CreateParticipant(ctx, sqlc_generated.CreateParticipantParams{
		EventID:         participant.EventID,
		UserID:          participant.UserID,
		Username:        participant.Username,
		DisplayName:     participant.DisplayName,
		Role:            string(role),
		Status:          string(status),
		StatusUpdatedAt: timeToTimestamptz(statusUpdatedAt),
		JoinedAt:        timeToTimestamptz(joinedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrParticipantExists
		}
		return fmt.Errorf("create participant: %w", err)
	}
	*participant = participantToDomain(row)
	return nil
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Participant, error) {
	row, err := r.q.GetParticipantByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant by id: %w", err)
	}
	p := participantToDomain(row)
	return &p, nil
}

func (r *ParticipantRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]entities.Participant, error) {
	rows, err := r.q.ListParticipantsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants by event id: %w", err)
	}
	out := make([]entities.Participant, len(rows))
	for i := range rows {
		out[i] = participantToDomain(rows[i])
	}
	return out, nil
}

func (r *ParticipantRepository) FindByEventIDAndUserID(ctx context.Context, eventID uuid.UUID, userID string) (*entities.Participant, error) {
	row, err := r.q.GetParticipantByEventIDAndUserID(ctx, sqlc_generated.GetParticipantByEventIDAndUserIDParams{
		EventID: eventID,
		UserID:  userID,
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant by event id and user id: %w", err)
	}
	p := participantToDomain(row)
	return &p, nil
}

func (r *ParticipantRepository) UpdateStatusBulk(ctx context.Context, update output.BulkStatusUpdate) (int64, error) {
	from := make([]string, len(update.From))
	for i, s := range update.From {
		from[i] = string(s)
	}
	n, err := r.q.UpdateParticipantStatusBulk(ctx, sqlc_generated.UpdateParticipantStatusBulkParams{
		ToStatus:      string(update.To),
		At:            timeToTimestamptz(update.At),
		EventID:       update.EventID,
		FromStatuses:  from,
		UpdatedBefore: timeToTimestamptz(update.UpdatedBefore),
	})
	if err != nil {
		return 0, fmt.Errorf("bulk update participant status: %w", err)
	}
	return n, nil
}

func (r *ParticipantRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ParticipantStatus, at time.Time) error {
	n, err := r.q.UpdateParticipantStatus(ctx, sqlc_generated.UpdateParticipantStatusParams{
		ID:              id,
		Status:          string(status),
		StatusUpdatedAt: timeToTimestamptz(at),
	})
	if err != nil {
		return fmt.Errorf("update participant status: %w", err)
	}
	if n == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *ParticipantRepository) UpdateResult(ctx context.Context, id uuid.UUID, score *float64, placement *int) error {
	n, err := r.q.UpdateParticipantResult(ctx, sqlc_generated.UpdateParticipantResultParams{
		ID:        id,
		Score:     ptrToFloat8(score),
		Placement: ptrToInt4(placement),
	})
	if err != nil {
		return fmt.Errorf("update participant result: %w", err)
	}
	if n == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}
