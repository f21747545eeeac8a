package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

type fakeRepo struct {
	sessions map[string]*Session
	messages map[string][]*Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: make(map[string]*Session),
		messages: make(map[string][]*Message),
	}
}

func (f *fakeRepo) CreateSession(_ context.Context, s *Session) error {
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeRepo) FindSession(_ context.Context, id string) (*Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) ListSessions(_ context.Context, userID string) ([]*Session, error) {
	var out []*Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateSessionStatus(_ context.Context, id string, status SessionStatus) error {
	s, ok := f.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeRepo) AppendMessage(_ context.Context, m *Message) error {
	cp := *m
	f.messages[m.SessionID] = append(f.messages[m.SessionID], &cp)
	return nil
}

func (f *fakeRepo) ListMessages(_ context.Context, sessionID string) ([]*Message, error) {
	return f.messages[sessionID], nil
}

type failingResponder struct{}

func (failingResponder) Reply(context.Context, string, []*Message, string) (string, error) {
	return "", errors.New("model endpoint down")
}

func actor(id string) *user.AuthContext {
	return &user.AuthContext{User: &user.User{ID: id, Role: user.RolePatient}, Role: user.RolePatient}
}

func newTestService(responder Responder) (Service, *fakeRepo) {
	repo := newFakeRepo()
	if responder == nil {
		responder = NewCannedResponder()
	}
	return NewService(repo, responder, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestStartSessionWithFirstMessage(t *testing.T) {
	svc, _ := newTestService(nil)

	swm, err := svc.StartSession(context.Background(), actor("u-1"), "headaches", "I keep getting a headache after work")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if swm.Session.Status != SessionActive {
		t.Errorf("Status = %q, want active", swm.Session.Status)
	}
	if len(swm.Messages) != 2 {
		t.Fatalf("got %d messages, want user turn + assistant reply", len(swm.Messages))
	}
	if swm.Messages[0].Role != RoleUser || swm.Messages[1].Role != RoleAssistant {
		t.Errorf("roles = %q, %q", swm.Messages[0].Role, swm.Messages[1].Role)
	}
	if swm.Messages[1].Content == "" {
		t.Error("assistant reply is empty")
	}
}

func TestStartSessionWithoutMessage(t *testing.T) {
	svc, _ := newTestService(nil)

	swm, err := svc.StartSession(context.Background(), actor("u-1"), "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(swm.Messages) != 0 {
		t.Errorf("got %d messages, want none", len(swm.Messages))
	}
}

func TestSendMessageOwnershipAndTranscript(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	swm, err := svc.StartSession(ctx, actor("u-1"), "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.SendMessage(ctx, actor("u-2"), swm.Session.ID, "hello"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign user: got %v, want ErrForbidden", err)
	}

	exchange, err := svc.SendMessage(ctx, actor("u-1"), swm.Session.ID, "I have a mild fever")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if exchange.AssistantMessage.Role != RoleAssistant {
		t.Errorf("reply role = %q", exchange.AssistantMessage.Role)
	}

	full, err := svc.GetSession(ctx, actor("u-1"), swm.Session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(full.Messages) != 2 {
		t.Errorf("transcript has %d messages, want 2", len(full.Messages))
	}

	if _, err := svc.GetSession(ctx, actor("u-2"), swm.Session.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign get: got %v, want ErrForbidden", err)
	}
}

func TestArchivedSessionRejectsMessages(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	owner := actor("u-1")

	swm, err := svc.StartSession(ctx, owner, "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.ArchiveSession(ctx, owner, swm.Session.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	// Archiving twice is a no-op.
	if err := svc.ArchiveSession(ctx, owner, swm.Session.ID); err != nil {
		t.Errorf("second archive: %v", err)
	}

	if _, err := svc.SendMessage(ctx, owner, swm.Session.ID, "hello?"); !errors.Is(err, ErrSessionArchived) {
		t.Errorf("got %v, want ErrSessionArchived", err)
	}
}

func TestResponderFailureMapsToUnavailable(t *testing.T) {
	svc, _ := newTestService(failingResponder{})
	ctx := context.Background()

	if _, err := svc.StartSession(ctx, actor("u-1"), "", "hello"); !errors.Is(err, ErrAssistantUnavailable) {
		t.Errorf("got %v, want ErrAssistantUnavailable", err)
	}
}

func TestListSessionsScopedToOwner(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.StartSession(ctx, actor("u-1"), "a", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.StartSession(ctx, actor("u-2"), "b", ""); err != nil {
		t.Fatalf("start: %v", err)
	}

	sessions, err := svc.ListSessions(ctx, actor("u-1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("got %d sessions, want 1", len(sessions))
	}
}
