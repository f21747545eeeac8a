package chat

import "time"

// SessionStatus is the lifecycle state of a chat session.
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionArchived SessionStatus = "archived"
)

// MessageRole identifies the author side of a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Session is a conversation between a user and the medical assistant.
type Session struct {
	ID        string        `db:"id"`
	UserID    string        `db:"user_id"`
	Topic     string        `db:"topic"`
	Status    SessionStatus `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

// Message is a single turn in a chat session.
type Message struct {
	ID        string      `db:"id"`
	SessionID string      `db:"session_id"`
	Role      MessageRole `db:"role"`
	Content   string      `db:"content"`
	CreatedAt time.Time   `db:"created_at"`
}
