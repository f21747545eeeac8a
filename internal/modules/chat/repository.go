package chat

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/medlinkhq/medlink/internal/database"
)

// Repository defines the persistence operations for chat sessions and
// messages.
type Repository interface {
	CreateSession(ctx context.Context, s *Session) error
	FindSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context, userID string) ([]*Session, error)
	UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) error

	AppendMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, sessionID string) ([]*Message, error)
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new Postgres-backed chat repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *repository) CreateSession(ctx context.Context, s *Session) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	query, args, err := r.psql.Insert("chat_sessions").
		Columns("id", "user_id", "topic", "status", "created_at", "updated_at").
		Values(s.ID, s.UserID, s.Topic, string(s.Status), s.CreatedAt, s.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) FindSession(ctx context.Context, id string) (*Session, error) {
	query, args, err := r.psql.Select("id", "user_id", "topic", "status", "created_at", "updated_at").
		From("chat_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var s Session
	if err := pgxscan.Get(ctx, r.db, &s, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListSessions(ctx context.Context, userID string) ([]*Session, error) {
	query, args, err := r.psql.Select("id", "user_id", "topic", "status", "created_at", "updated_at").
		From("chat_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var sessions []*Session
	if err := pgxscan.Select(ctx, r.db, &sessions, query, args...); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) error {
	query, args, err := r.psql.Update("chat_sessions").
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

func (r *repository) AppendMessage(ctx context.Context, m *Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("chat_messages").
		Columns("id", "session_id", "role", "content", "created_at").
		Values(m.ID, m.SessionID, string(m.Role), m.Content, m.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// ListMessages returns the session transcript in chronological order.
func (r *repository) ListMessages(ctx context.Context, sessionID string) ([]*Message, error) {
	query, args, err := r.psql.Select("id", "session_id", "role", "content", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var messages []*Message
	if err := pgxscan.Select(ctx, r.db, &messages, query, args...); err != nil {
		return nil, err
	}
	return messages, nil
}
