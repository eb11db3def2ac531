package database

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/infrastructure/database/sqlc_generated"
)

const uniqueViolation = "23505"

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// timeToTimestamptz maps the zero time to NULL.
func timeToTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func float8ToPtr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func int4ToPtr(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}

func ptrToFloat8(v *float64) pgtype.Float8 {
	if v == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *v, Valid: true}
}

func ptrToInt4(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*v), Valid: true}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func eventToDomain(e sqlc_generated.Event) entities.Event {
	return entities.Event{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Title:           e.Title,
		Status:          domain.EventStatus(e.Status),
		StartTime:       pgtypeTimestamptzToTime(e.StartTime),
		EndTime:         pgtypeTimestamptzToTime(e.EndTime),
		MaxParticipants: int(e.MaxParticipants),
		MinParticipants: int(e.MinParticipants),
		ResultsVisible:  e.ResultsVisible,
		ChannelID:       e.ChannelID,
		CreatedAt:       pgtypeTimestamptzToTime(e.CreatedAt),
		UpdatedAt:       pgtypeTimestamptzToTime(e.UpdatedAt),
	}
}

func eventsToDomain(rows []sqlc_generated.Event) []entities.Event {
	out := make([]entities.Event, len(rows))
	for i := range rows {
		out[i] = eventToDomain(rows[i])
	}
	return out
}

func participantToDomain(p sqlc_generated.EventParticipant) entities.Participant {
	return entities.Participant{
		ID:              p.ID,
		EventID:         p.EventID,
		UserID:          p.UserID,
		Username:        p.Username,
		DisplayName:     p.DisplayName,
		Role:            domain.Role(p.Role),
		Status:          domain.ParticipantStatus(p.Status),
		Score:           float8ToPtr(p.Score),
		Placement:       int4ToPtr(p.Placement),
		StatusUpdatedAt: pgtypeTimestamptzToTime(p.StatusUpdatedAt),
		JoinedAt:        pgtypeTimestamptzToTime(p.JoinedAt),
		CreatedAt:       pgtypeTimestamptzToTime(p.CreatedAt),
		UpdatedAt:       pgtypeTimestamptzToTime(p.UpdatedAt),
	}
}
