package doctor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

// ProfileInput carries the editable fields of a doctor profile.
type ProfileInput struct {
	Specialization  string
	Bio             string
	ConsultationFee float64
	AvailableSlots  []Slot
	Longitude       float64
	Latitude        float64
}

// Service defines the business logic for doctor profiles.
type Service interface {
	Create(ctx context.Context, actor *user.AuthContext, forUserID string, input ProfileInput) (*Doctor, error)
	Get(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context, specialization string) ([]*Doctor, error)
	Nearby(ctx context.Context, longitude, latitude, radiusKm float64) ([]*Doctor, error)
	Slots(ctx context.Context, id string) ([]Slot, error)
	Update(ctx context.Context, actor *user.AuthContext, id string, input ProfileInput) (*Doctor, error)
	Delete(ctx context.Context, actor *user.AuthContext, id string) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new doctor service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// Create provisions a profile. Doctors create their own; admins may create a
// profile for any user.
func (s *service) Create(ctx context.Context, actor *user.AuthContext, forUserID string, input ProfileInput) (*Doctor, error) {
	ownerID := actor.User.ID
	if forUserID != "" && forUserID != actor.User.ID {
		if actor.Role != user.RoleAdmin {
			return nil, ErrForbidden
		}
		ownerID = forUserID
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	d := &Doctor{
		ID:              id.String(),
		UserID:          ownerID,
		Specialization:  input.Specialization,
		Bio:             input.Bio,
		ConsultationFee: input.ConsultationFee,
		AvailableSlots:  input.AvailableSlots,
		Longitude:       input.Longitude,
		Latitude:        input.Latitude,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("doctor profile created", "doctor_id", d.ID, "user_id", d.UserID)
	return d, nil
}

func (s *service) Get(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, specialization string) ([]*Doctor, error) {
	return s.repo.List(ctx, specialization)
}

func (s *service) Nearby(ctx context.Context, longitude, latitude, radiusKm float64) ([]*Doctor, error) {
	if radiusKm <= 0 {
		radiusKm = 10
	}
	return s.repo.Nearby(ctx, longitude, latitude, radiusKm)
}

func (s *service) Slots(ctx context.Context, id string) ([]Slot, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.AvailableSlots, nil
}

// Update rewrites the profile fields. Only the owning doctor or an admin may
// update a profile.
func (s *service) Update(ctx context.Context, actor *user.AuthContext, id string, input ProfileInput) (*Doctor, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != actor.User.ID && actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}

	d.Specialization = input.Specialization
	d.Bio = input.Bio
	d.ConsultationFee = input.ConsultationFee
	d.AvailableSlots = input.AvailableSlots
	d.Longitude = input.Longitude
	d.Latitude = input.Latitude
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Delete(ctx context.Context, actor *user.AuthContext, id string) error {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if d.UserID != actor.User.ID && actor.Role != user.RoleAdmin {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
