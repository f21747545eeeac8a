package appointment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

type fakeRepo struct {
	appts map[string]*Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appts: make(map[string]*Appointment)}
}

func (f *fakeRepo) Create(_ context.Context, a *Appointment) error {
	cp := *a
	f.appts[a.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) ListAll(context.Context) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range f.appts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID string) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByDoctor(_ context.Context, doctorID string) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	a, ok := f.appts[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.appts[id]; !ok {
		return ErrNotFound
	}
	delete(f.appts, id)
	return nil
}

func actor(id string, role user.Role) *user.AuthContext {
	return &user.AuthContext{User: &user.User{ID: id, Role: role}, Role: role}
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo
}

func futureInput(doctorID string) CreateInput {
	return CreateInput{
		DoctorID:    doctorID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Condition:   "persistent cough",
	}
}

func TestCreateBooksForSelf(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.Create(context.Background(), actor("patient-1", user.RolePatient), futureInput("doc-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.PatientID != "patient-1" {
		t.Errorf("PatientID = %q, want the caller", a.PatientID)
	}
	if a.Status != StatusScheduled {
		t.Errorf("Status = %q, want scheduled", a.Status)
	}
}

func TestCreateForOthersRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	input := futureInput("doc-1")
	input.PatientID = "patient-2"

	if _, err := svc.Create(ctx, actor("patient-1", user.RolePatient), input); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient booking for another: got %v, want ErrForbidden", err)
	}

	a, err := svc.Create(ctx, actor("admin-1", user.RoleAdmin), input)
	if err != nil {
		t.Fatalf("admin booking for another: %v", err)
	}
	if a.PatientID != "patient-2" {
		t.Errorf("PatientID = %q, want patient-2", a.PatientID)
	}
}

func TestCreateRejectsPastTime(t *testing.T) {
	svc, _ := newTestService()

	input := futureInput("doc-1")
	input.ScheduledAt = time.Now().Add(-time.Hour)
	if _, err := svc.Create(context.Background(), actor("patient-1", user.RolePatient), input); !errors.Is(err, ErrPastSchedule) {
		t.Errorf("got %v, want ErrPastSchedule", err)
	}
}

func TestGetEnforcesParticipants(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, actor("patient-1", user.RolePatient), futureInput("doc-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name    string
		caller  *user.AuthContext
		wantErr error
	}{
		{"patient", actor("patient-1", user.RolePatient), nil},
		{"doctor", actor("doc-1", user.RoleDoctor), nil},
		{"admin", actor("admin-1", user.RoleAdmin), nil},
		{"stranger", actor("other-1", user.RolePatient), ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(ctx, tt.caller, a.ID)
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.Get(ctx, actor("patient-1", user.RolePatient), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr error
	}{
		{"scheduled to completed", StatusScheduled, StatusCompleted, nil},
		{"scheduled to cancelled", StatusScheduled, StatusCancelled, nil},
		{"scheduled to scheduled", StatusScheduled, StatusScheduled, ErrIllegalTransition},
		{"completed is terminal", StatusCompleted, StatusCancelled, ErrIllegalTransition},
		{"cancelled is terminal", StatusCancelled, StatusCompleted, ErrIllegalTransition},
		{"unknown status", StatusScheduled, Status("postponed"), ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			ctx := context.Background()

			a, err := svc.Create(ctx, actor("patient-1", user.RolePatient), futureInput("doc-1"))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			repo.appts[a.ID].Status = tt.from

			updated, err := svc.UpdateStatus(ctx, actor("patient-1", user.RolePatient), a.ID, tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Status != tt.to {
				t.Errorf("Status = %q, want %q", updated.Status, tt.to)
			}
		})
	}
}

func TestListScopes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, actor("patient-1", user.RolePatient), futureInput("doc-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ListAll(ctx, actor("patient-1", user.RolePatient)); !errors.Is(err, ErrForbidden) {
		t.Errorf("ListAll by non-admin: got %v, want ErrForbidden", err)
	}
	if appts, err := svc.ListAll(ctx, actor("admin-1", user.RoleAdmin)); err != nil || len(appts) != 1 {
		t.Errorf("ListAll by admin: got %d appts, err %v", len(appts), err)
	}

	if _, err := svc.ListByPatient(ctx, actor("patient-2", user.RolePatient), "patient-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign patient list: got %v, want ErrForbidden", err)
	}
	if appts, err := svc.ListByPatient(ctx, actor("patient-1", user.RolePatient), "patient-1"); err != nil || len(appts) != 1 {
		t.Errorf("own patient list: got %d appts, err %v", len(appts), err)
	}
	if appts, err := svc.ListByDoctor(ctx, actor("doc-1", user.RoleDoctor), "doc-1"); err != nil || len(appts) != 1 {
		t.Errorf("own doctor list: got %d appts, err %v", len(appts), err)
	}
}

func TestDeleteEnforcesParticipants(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, actor("patient-1", user.RolePatient), futureInput("doc-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, actor("stranger", user.RolePatient), a.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, actor("patient-1", user.RolePatient), a.ID); err != nil {
		t.Errorf("participant delete: %v", err)
	}
	if _, err := svc.Get(ctx, actor("patient-1", user.RolePatient), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
}
