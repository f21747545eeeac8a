package doctor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

type fakeRepo struct {
	doctors map[string]*Doctor
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{doctors: make(map[string]*Doctor)}
}

func (f *fakeRepo) Create(_ context.Context, d *Doctor) error {
	for _, existing := range f.doctors {
		if existing.UserID == d.UserID {
			return ErrProfileExists
		}
	}
	cp := *d
	f.doctors[d.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) FindByUserID(_ context.Context, userID string) (*Doctor, error) {
	for _, d := range f.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, specialization string) ([]*Doctor, error) {
	var out []*Doctor
	for _, d := range f.doctors {
		if specialization == "" || d.Specialization == specialization {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) Nearby(context.Context, float64, float64, float64) ([]*Doctor, error) {
	return nil, nil
}

func (f *fakeRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := f.doctors[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	f.doctors[d.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(f.doctors, id)
	return nil
}

func actor(id string, role user.Role) *user.AuthContext {
	return &user.AuthContext{User: &user.User{ID: id, Role: role}, Role: role}
}

func newTestService() Service {
	return NewService(newFakeRepo(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func profile() ProfileInput {
	return ProfileInput{
		Specialization:  "cardiology",
		Bio:             "15 years of practice",
		ConsultationFee: 120,
		AvailableSlots:  []Slot{{Day: "Mon", Start: "09:00", End: "12:00"}},
		Longitude:       3.38,
		Latitude:        6.52,
	}
}

func TestCreateOwnProfile(t *testing.T) {
	svc := newTestService()

	d, err := svc.Create(context.Background(), actor("doc-1", user.RoleDoctor), "", profile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.UserID != "doc-1" {
		t.Errorf("UserID = %q, want the caller", d.UserID)
	}
}

func TestCreateForOtherUserRequiresAdmin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, actor("doc-1", user.RoleDoctor), "doc-2", profile()); !errors.Is(err, ErrForbidden) {
		t.Errorf("doctor creating for another: got %v, want ErrForbidden", err)
	}

	d, err := svc.Create(ctx, actor("admin-1", user.RoleAdmin), "doc-2", profile())
	if err != nil {
		t.Fatalf("admin creating: %v", err)
	}
	if d.UserID != "doc-2" {
		t.Errorf("UserID = %q, want doc-2", d.UserID)
	}
}

func TestCreateRejectsSecondProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc := actor("doc-1", user.RoleDoctor)

	if _, err := svc.Create(ctx, doc, "", profile()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, doc, "", profile()); !errors.Is(err, ErrProfileExists) {
		t.Errorf("got %v, want ErrProfileExists", err)
	}
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := actor("doc-1", user.RoleDoctor)

	d, err := svc.Create(ctx, owner, "", profile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := profile()
	input.ConsultationFee = 150

	if _, err := svc.Update(ctx, actor("doc-2", user.RoleDoctor), d.ID, input); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign update: got %v, want ErrForbidden", err)
	}
	updated, err := svc.Update(ctx, owner, d.ID, input)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.ConsultationFee != 150 {
		t.Errorf("ConsultationFee = %v, want 150", updated.ConsultationFee)
	}
	if _, err := svc.Update(ctx, actor("admin-1", user.RoleAdmin), d.ID, input); err != nil {
		t.Errorf("admin update: %v", err)
	}

	if err := svc.Delete(ctx, actor("doc-2", user.RoleDoctor), d.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign delete: got %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, owner, d.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if _, err := svc.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
}

func TestSlots(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d, err := svc.Create(ctx, actor("doc-1", user.RoleDoctor), "", profile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	slots, err := svc.Slots(ctx, d.ID)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != 1 || slots[0].Day != "Mon" {
		t.Errorf("slots = %+v", slots)
	}

	if _, err := svc.Slots(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
