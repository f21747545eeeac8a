package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

// CreateInput carries the fields required to book an appointment.
type CreateInput struct {
	PatientID   string
	DoctorID    string
	ScheduledAt time.Time
	Condition   string
}

// Service defines the business logic for appointments.
type Service interface {
	Create(ctx context.Context, actor *user.AuthContext, input CreateInput) (*Appointment, error)
	Get(ctx context.Context, actor *user.AuthContext, id string) (*Appointment, error)
	ListAll(ctx context.Context, actor *user.AuthContext) ([]*Appointment, error)
	ListByPatient(ctx context.Context, actor *user.AuthContext, patientID string) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, actor *user.AuthContext, doctorID string) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, actor *user.AuthContext, id string, status Status) (*Appointment, error)
	Delete(ctx context.Context, actor *user.AuthContext, id string) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new appointment service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// Create books an appointment. Patients book for themselves; admins may book
// on behalf of any patient.
func (s *service) Create(ctx context.Context, actor *user.AuthContext, input CreateInput) (*Appointment, error) {
	patientID := actor.User.ID
	if input.PatientID != "" && input.PatientID != actor.User.ID {
		if actor.Role != user.RoleAdmin {
			return nil, ErrForbidden.WithDetail("patients may only book appointments for themselves")
		}
		patientID = input.PatientID
	}
	if !input.ScheduledAt.After(time.Now()) {
		return nil, ErrPastSchedule
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	a := &Appointment{
		ID:          id.String(),
		PatientID:   patientID,
		DoctorID:    input.DoctorID,
		ScheduledAt: input.ScheduledAt,
		Condition:   input.Condition,
		Status:      StatusScheduled,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("appointment created", "appointment_id", a.ID,
		"patient_id", a.PatientID, "doctor_id", a.DoctorID)
	return a, nil
}

// Get returns the appointment if the caller is a participant or an admin.
func (s *service) Get(ctx context.Context, actor *user.AuthContext, id string) (*Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsParticipant(actor.User.ID) && actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}
	return a, nil
}

// ListAll is admin-only.
func (s *service) ListAll(ctx context.Context, actor *user.AuthContext) ([]*Appointment, error) {
	if actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

func (s *service) ListByPatient(ctx context.Context, actor *user.AuthContext, patientID string) ([]*Appointment, error) {
	if patientID != actor.User.ID && actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *service) ListByDoctor(ctx context.Context, actor *user.AuthContext, doctorID string) ([]*Appointment, error) {
	if doctorID != actor.User.ID && actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

// UpdateStatus moves the appointment through its lifecycle, allowing only
// legal transitions.
func (s *service) UpdateStatus(ctx context.Context, actor *user.AuthContext, id string, status Status) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsParticipant(actor.User.ID) && actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}
	if !CanTransition(a.Status, status) {
		return nil, ErrIllegalTransition.WithContext(map[string]any{
			"from": a.Status,
			"to":   status,
		})
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status

	s.logger.Info("appointment status updated", "appointment_id", a.ID, "status", status)
	return a, nil
}

func (s *service) Delete(ctx context.Context, actor *user.AuthContext, id string) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.IsParticipant(actor.User.ID) && actor.Role != user.RoleAdmin {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
