package doctor

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medlinkhq/medlink/internal/database"
)

// Repository defines the persistence operations for doctor profiles.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	FindByID(ctx context.Context, id string) (*Doctor, error)
	FindByUserID(ctx context.Context, userID string) (*Doctor, error)
	List(ctx context.Context, specialization string) ([]*Doctor, error)
	Nearby(ctx context.Context, longitude, latitude, radiusKm float64) ([]*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new Postgres-backed doctor repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var doctorColumns = []string{
	"id", "user_id", "specialization", "bio", "consultation_fee",
	"available_slots", "longitude", "latitude", "created_at", "updated_at",
}

func (r *repository) Create(ctx context.Context, d *Doctor) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now

	query, args, err := r.psql.Insert("doctors").
		Columns(doctorColumns...).
		Values(d.ID, d.UserID, d.Specialization, d.Bio, d.ConsultationFee,
			d.AvailableSlots, d.Longitude, d.Latitude, d.CreatedAt, d.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrProfileExists.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *repository) findOne(ctx context.Context, pred any) (*Doctor, error) {
	query, args, err := r.psql.Select(doctorColumns...).
		From("doctors").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var d Doctor
	if err := pgxscan.Get(ctx, r.db, &d, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Doctor, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Doctor, error) {
	return r.findOne(ctx, squirrel.Eq{"user_id": userID})
}

// List returns doctor profiles, optionally filtered by specialization.
func (r *repository) List(ctx context.Context, specialization string) ([]*Doctor, error) {
	builder := r.psql.Select(doctorColumns...).
		From("doctors").
		OrderBy("created_at DESC")
	if specialization != "" {
		builder = builder.Where(squirrel.Eq{"specialization": specialization})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var doctors []*Doctor
	if err := pgxscan.Select(ctx, r.db, &doctors, query, args...); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Nearby returns doctors within radiusKm of the given point. Haversine over
// plain lat/lng columns; fine at this scale.
func (r *repository) Nearby(ctx context.Context, longitude, latitude, radiusKm float64) ([]*Doctor, error) {
	const haversine = `6371 * acos(
		least(1.0, cos(radians(?)) * cos(radians(latitude)) *
		cos(radians(longitude) - radians(?)) +
		sin(radians(?)) * sin(radians(latitude))))`

	query, args, err := r.psql.Select(doctorColumns...).
		From("doctors").
		Where(squirrel.Expr("("+haversine+") <= ?", latitude, longitude, latitude, radiusKm)).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var doctors []*Doctor
	if err := pgxscan.Select(ctx, r.db, &doctors, query, args...); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *repository) Update(ctx context.Context, d *Doctor) error {
	d.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("doctors").
		Set("specialization", d.Specialization).
		Set("bio", d.Bio).
		Set("consultation_fee", d.ConsultationFee).
		Set("available_slots", d.AvailableSlots).
		Set("longitude", d.Longitude).
		Set("latitude", d.Latitude).
		Set("updated_at", d.UpdatedAt).
		Where(squirrel.Eq{"id": d.ID}).
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
	query, args, err := r.psql.Delete("doctors").
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
