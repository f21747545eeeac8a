package call

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

type fakeRepo struct {
	calls map[string]*Call
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{calls: make(map[string]*Call)}
}

func (f *fakeRepo) Create(_ context.Context, c *Call) error {
	cp := *c
	f.calls[c.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*Call, error) {
	c, ok := f.calls[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListByParticipant(_ context.Context, userID string) ([]*Call, error) {
	var out []*Call
	for _, c := range f.calls {
		if c.IsParticipant(userID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, c *Call) error {
	if _, ok := f.calls[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	f.calls[c.ID] = &cp
	return nil
}

func actor(id string, role user.Role) *user.AuthContext {
	return &user.AuthContext{User: &user.User{ID: id, Role: role}, Role: role}
}

func newTestService() Service {
	return NewService(newFakeRepo(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func initInput() InitializeInput {
	return InitializeInput{
		DoctorID:  "doc-1",
		PatientID: "patient-1",
		Video:     true,
		MediaURL:  "room://abc123",
	}
}

func TestInitializeRequiresParty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Initialize(ctx, actor("stranger", user.RolePatient), initInput()); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: got %v, want ErrForbidden", err)
	}

	c, err := svc.Initialize(ctx, actor("doc-1", user.RoleDoctor), initInput())
	if err != nil {
		t.Fatalf("doctor initializing: %v", err)
	}
	if c.Status != StatusScheduled {
		t.Errorf("Status = %q, want scheduled", c.Status)
	}

	if _, err := svc.Initialize(ctx, actor("admin-1", user.RoleAdmin), initInput()); err != nil {
		t.Errorf("admin initializing: %v", err)
	}
}

func TestCallLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc := actor("doc-1", user.RoleDoctor)

	c, err := svc.Initialize(ctx, doc, initInput())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	started, err := svc.Start(ctx, doc, c.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusOngoing || started.StartedAt == nil {
		t.Errorf("after start: status %q, startedAt %v", started.Status, started.StartedAt)
	}

	// A call cannot start twice.
	if _, err := svc.Start(ctx, doc, c.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("double start: got %v, want ErrIllegalTransition", err)
	}

	ended, err := svc.End(ctx, doc, c.ID, EndInput{Notes: "follow up in a week", RecordingURL: "rec://xyz"})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Status != StatusCompleted || ended.EndedAt == nil {
		t.Errorf("after end: status %q, endedAt %v", ended.Status, ended.EndedAt)
	}
	if ended.Notes != "follow up in a week" {
		t.Errorf("Notes = %q", ended.Notes)
	}
	if ended.Duration() < 0 {
		t.Errorf("Duration = %v, want >= 0", ended.Duration())
	}

	// Completed is terminal.
	if _, err := svc.Cancel(ctx, doc, c.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("cancel after end: got %v, want ErrIllegalTransition", err)
	}
}

func TestCancelAndMissedOnlyFromScheduled(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc := actor("doc-1", user.RoleDoctor)

	c1, _ := svc.Initialize(ctx, doc, initInput())
	if cancelled, err := svc.Cancel(ctx, doc, c1.ID); err != nil || cancelled.Status != StatusCancelled {
		t.Errorf("cancel scheduled: status %v, err %v", cancelled, err)
	}

	c2, _ := svc.Initialize(ctx, doc, initInput())
	if missed, err := svc.MarkMissed(ctx, doc, c2.ID); err != nil || missed.Status != StatusMissed {
		t.Errorf("mark missed: status %v, err %v", missed, err)
	}

	c3, _ := svc.Initialize(ctx, doc, initInput())
	if _, err := svc.Start(ctx, doc, c3.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.MarkMissed(ctx, doc, c3.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("miss an ongoing call: got %v, want ErrIllegalTransition", err)
	}
}

func TestGetAndEndRestrictedToParticipants(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc := actor("doc-1", user.RoleDoctor)

	c, _ := svc.Initialize(ctx, doc, initInput())

	if _, err := svc.Get(ctx, actor("stranger", user.RolePatient), c.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger get: got %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, actor("patient-1", user.RolePatient), c.ID); err != nil {
		t.Errorf("patient get: %v", err)
	}
	if _, err := svc.Get(ctx, actor("admin-1", user.RoleAdmin), c.ID); err != nil {
		t.Errorf("admin get: %v", err)
	}
}

func TestHistoryListsOwnCallsOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc := actor("doc-1", user.RoleDoctor)

	if _, err := svc.Initialize(ctx, doc, initInput()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	other := initInput()
	other.PatientID = "patient-2"
	if _, err := svc.Initialize(ctx, doc, other); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if calls, err := svc.History(ctx, actor("patient-1", user.RolePatient)); err != nil || len(calls) != 1 {
		t.Errorf("patient-1 history: %d calls, err %v", len(calls), err)
	}
	if calls, err := svc.History(ctx, doc); err != nil || len(calls) != 2 {
		t.Errorf("doctor history: %d calls, err %v", len(calls), err)
	}
}
