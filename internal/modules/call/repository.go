package call

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/medlinkhq/medlink/internal/database"
)

// Repository defines the persistence operations for call sessions.
type Repository interface {
	Create(ctx context.Context, c *Call) error
	FindByID(ctx context.Context, id string) (*Call, error)
	ListByParticipant(ctx context.Context, userID string) ([]*Call, error)
	Update(ctx context.Context, c *Call) error
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new Postgres-backed call repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var callColumns = []string{
	"id", "appointment_id", "doctor_id", "patient_id", "video", "media_url",
	"status", "started_at", "ended_at", "notes", "recording_url",
	"created_at", "updated_at",
}

func (r *repository) Create(ctx context.Context, c *Call) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query, args, err := r.psql.Insert("calls").
		Columns(callColumns...).
		Values(c.ID, c.AppointmentID, c.DoctorID, c.PatientID, c.Video, c.MediaURL,
			string(c.Status), c.StartedAt, c.EndedAt, c.Notes, c.RecordingURL,
			c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Call, error) {
	query, args, err := r.psql.Select(callColumns...).
		From("calls").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c Call
	if err := pgxscan.Get(ctx, r.db, &c, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByParticipant returns every call where the user is the doctor or the
// patient, most recent first.
func (r *repository) ListByParticipant(ctx context.Context, userID string) ([]*Call, error) {
	query, args, err := r.psql.Select(callColumns...).
		From("calls").
		Where(squirrel.Or{
			squirrel.Eq{"doctor_id": userID},
			squirrel.Eq{"patient_id": userID},
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var calls []*Call
	if err := pgxscan.Select(ctx, r.db, &calls, query, args...); err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *repository) Update(ctx context.Context, c *Call) error {
	c.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("calls").
		Set("status", string(c.Status)).
		Set("started_at", c.StartedAt).
		Set("ended_at", c.EndedAt).
		Set("notes", c.Notes).
		Set("recording_url", c.RecordingURL).
		Set("media_url", c.MediaURL).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
