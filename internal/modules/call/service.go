package call

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

// InitializeInput carries the fields required to set up a call session.
type InitializeInput struct {
	AppointmentID string
	DoctorID      string
	PatientID     string
	Video         bool
	MediaURL      string
}

// EndInput carries the wrap-up fields recorded when a call finishes.
type EndInput struct {
	Notes        string
	RecordingURL string
}

// Service defines the business logic for call sessions.
type Service interface {
	Initialize(ctx context.Context, actor *user.AuthContext, input InitializeInput) (*Call, error)
	Start(ctx context.Context, actor *user.AuthContext, id string) (*Call, error)
	End(ctx context.Context, actor *user.AuthContext, id string, input EndInput) (*Call, error)
	Cancel(ctx context.Context, actor *user.AuthContext, id string) (*Call, error)
	MarkMissed(ctx context.Context, actor *user.AuthContext, id string) (*Call, error)
	Get(ctx context.Context, actor *user.AuthContext, id string) (*Call, error)
	History(ctx context.Context, actor *user.AuthContext) ([]*Call, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new call service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// Initialize creates a call in the scheduled state. The caller must be one of
// the two parties, or an admin.
func (s *service) Initialize(ctx context.Context, actor *user.AuthContext, input InitializeInput) (*Call, error) {
	if actor.User.ID != input.DoctorID && actor.User.ID != input.PatientID && actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	c := &Call{
		ID:        id.String(),
		DoctorID:  input.DoctorID,
		PatientID: input.PatientID,
		Video:     input.Video,
		MediaURL:  input.MediaURL,
		Status:    StatusScheduled,
	}
	if input.AppointmentID != "" {
		c.AppointmentID = &input.AppointmentID
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("call initialized", "call_id", c.ID,
		"doctor_id", c.DoctorID, "patient_id", c.PatientID, "video", c.Video)
	return c, nil
}

func (s *service) loadForParticipant(ctx context.Context, actor *user.AuthContext, id string) (*Call, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsParticipant(actor.User.ID) && actor.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}
	return c, nil
}

func transitionError(from, to Status) error {
	return ErrIllegalTransition.WithContext(map[string]any{"from": from, "to": to})
}

// Start moves a scheduled call to ongoing and stamps the start time.
func (s *service) Start(ctx context.Context, actor *user.AuthContext, id string) (*Call, error) {
	c, err := s.loadForParticipant(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusScheduled {
		return nil, transitionError(c.Status, StatusOngoing)
	}

	now := time.Now()
	c.Status = StatusOngoing
	c.StartedAt = &now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("call started", "call_id", c.ID)
	return c, nil
}

// End completes an ongoing call, stamping the end time and recording any
// wrap-up notes.
func (s *service) End(ctx context.Context, actor *user.AuthContext, id string, input EndInput) (*Call, error) {
	c, err := s.loadForParticipant(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusOngoing {
		return nil, transitionError(c.Status, StatusCompleted)
	}

	now := time.Now()
	c.Status = StatusCompleted
	c.EndedAt = &now
	c.Notes = input.Notes
	c.RecordingURL = input.RecordingURL
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("call ended", "call_id", c.ID, "duration", c.Duration())
	return c, nil
}

// Cancel aborts a call that never started.
func (s *service) Cancel(ctx context.Context, actor *user.AuthContext, id string) (*Call, error) {
	c, err := s.loadForParticipant(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusScheduled {
		return nil, transitionError(c.Status, StatusCancelled)
	}

	c.Status = StatusCancelled
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("call cancelled", "call_id", c.ID)
	return c, nil
}

// MarkMissed flags a scheduled call the receiver never joined.
func (s *service) MarkMissed(ctx context.Context, actor *user.AuthContext, id string) (*Call, error) {
	c, err := s.loadForParticipant(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusScheduled {
		return nil, transitionError(c.Status, StatusMissed)
	}

	c.Status = StatusMissed
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, actor *user.AuthContext, id string) (*Call, error) {
	return s.loadForParticipant(ctx, actor, id)
}

// History returns all calls where the caller is a party.
func (s *service) History(ctx context.Context, actor *user.AuthContext) ([]*Call, error) {
	return s.repo.ListByParticipant(ctx, actor.User.ID)
}
