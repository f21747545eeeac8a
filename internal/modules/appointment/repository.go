package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/medlinkhq/medlink/internal/database"
)

// Repository defines the persistence operations for appointments.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	FindByID(ctx context.Context, id string) (*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new Postgres-backed appointment repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var appointmentColumns = []string{
	"id", "patient_id", "doctor_id", "scheduled_at", "condition", "status",
	"created_at", "updated_at",
}

func (r *repository) Create(ctx context.Context, a *Appointment) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	query, args, err := r.psql.Insert("appointments").
		Columns(appointmentColumns...).
		Values(a.ID, a.PatientID, a.DoctorID, a.ScheduledAt, a.Condition,
			string(a.Status), a.CreatedAt, a.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Appointment, error) {
	query, args, err := r.psql.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var a Appointment
	if err := pgxscan.Get(ctx, r.db, &a, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) list(ctx context.Context, pred any) ([]*Appointment, error) {
	builder := r.psql.Select(appointmentColumns...).
		From("appointments").
		OrderBy("scheduled_at DESC")
	if pred != nil {
		builder = builder.Where(pred)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var appts []*Appointment
	if err := pgxscan.Select(ctx, r.db, &appts, query, args...); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *repository) ListAll(ctx context.Context) ([]*Appointment, error) {
	return r.list(ctx, nil)
}

func (r *repository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return r.list(ctx, squirrel.Eq{"patient_id": patientID})
}

func (r *repository) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return r.list(ctx, squirrel.Eq{"doctor_id": doctorID})
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	query, args, err := r.psql.Update("appointments").
		Set("status", string(status)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
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

func (r *repository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("appointments").
		Where(squirrel.Eq{"id": id}).
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
