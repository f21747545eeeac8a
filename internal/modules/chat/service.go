package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

// SessionWithMessages bundles a session and its transcript.
type SessionWithMessages struct {
	Session  *Session
	Messages []*Message
}

// Exchange is one user turn and the assistant's reply.
type Exchange struct {
	UserMessage      *Message
	AssistantMessage *Message
}

// Service defines the business logic for the medical chat.
type Service interface {
	StartSession(ctx context.Context, actor *user.AuthContext, topic, firstMessage string) (*SessionWithMessages, error)
	SendMessage(ctx context.Context, actor *user.AuthContext, sessionID, content string) (*Exchange, error)
	GetSession(ctx context.Context, actor *user.AuthContext, sessionID string) (*SessionWithMessages, error)
	ListSessions(ctx context.Context, actor *user.AuthContext) ([]*Session, error)
	ArchiveSession(ctx context.Context, actor *user.AuthContext, sessionID string) error
}

type service struct {
	repo      Repository
	responder Responder
	logger    *slog.Logger
}

// NewService creates a new chat service.
func NewService(repo Repository, responder Responder, logger *slog.Logger) Service {
	return &service{repo: repo, responder: responder, logger: logger}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return id.String(), nil
}

// StartSession opens a session for the caller and, when a first message is
// given, runs the first exchange immediately.
func (s *service) StartSession(ctx context.Context, actor *user.AuthContext, topic, firstMessage string) (*SessionWithMessages, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:     id,
		UserID: actor.User.ID,
		Topic:  topic,
		Status: SessionActive,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("chat session started", "session_id", session.ID, "user_id", session.UserID)

	result := &SessionWithMessages{Session: session}
	if firstMessage != "" {
		exchange, err := s.appendExchange(ctx, session, firstMessage)
		if err != nil {
			return nil, err
		}
		result.Messages = []*Message{exchange.UserMessage, exchange.AssistantMessage}
	}
	return result, nil
}

func (s *service) loadOwnSession(ctx context.Context, actor *user.AuthContext, sessionID string) (*Session, error) {
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != actor.User.ID {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *service) appendExchange(ctx context.Context, session *Session, content string) (*Exchange, error) {
	userMsgID, err := newID()
	if err != nil {
		return nil, err
	}
	userMsg := &Message{
		ID:        userMsgID,
		SessionID: session.ID,
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.repo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	reply, err := s.responder.Reply(ctx, session.Topic, history, content)
	if err != nil {
		s.logger.Error("assistant responder failed", "session_id", session.ID, "error", err)
		return nil, ErrAssistantUnavailable.WithCause(err)
	}

	assistantMsgID, err := newID()
	if err != nil {
		return nil, err
	}
	assistantMsg := &Message{
		ID:        assistantMsgID,
		SessionID: session.ID,
		Role:      RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	return &Exchange{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// SendMessage appends a user turn to an active session owned by the caller
// and returns the assistant's reply.
func (s *service) SendMessage(ctx context.Context, actor *user.AuthContext, sessionID, content string) (*Exchange, error) {
	session, err := s.loadOwnSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionActive {
		return nil, ErrSessionArchived
	}
	return s.appendExchange(ctx, session, content)
}

func (s *service) GetSession(ctx context.Context, actor *user.AuthContext, sessionID string) (*SessionWithMessages, error) {
	session, err := s.loadOwnSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionWithMessages{Session: session, Messages: messages}, nil
}

func (s *service) ListSessions(ctx context.Context, actor *user.AuthContext) ([]*Session, error) {
	return s.repo.ListSessions(ctx, actor.User.ID)
}

func (s *service) ArchiveSession(ctx context.Context, actor *user.AuthContext, sessionID string) error {
	session, err := s.loadOwnSession(ctx, actor, sessionID)
	if err != nil {
		return err
	}
	if session.Status == SessionArchived {
		return nil
	}
	return s.repo.UpdateSessionStatus(ctx, sessionID, SessionArchived)
}
