package user

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/medlinkhq/medlink/internal/database"
)

// Repository defines the database operations for the user module. The
// abstraction keeps the service layer independent of the database, and lets
// tests substitute an in-memory fake.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindConflict(ctx context.Context, email, username, phone string) (*User, error)
	Update(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, userID string) error
	RecordLogout(ctx context.Context, userID string, at time.Time) error

	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*User, error)
	SetResetToken(ctx context.Context, userID string, tokenHash string, expiry time.Time) error

	// One-time codes: one row per user, replaced atomically on re-issue.
	UpsertVerificationCode(ctx context.Context, vc *VerificationCode) error
	ConsumeVerificationCode(ctx context.Context, userID, codeHash string, now time.Time) error
	IncrementVerificationAttempt(ctx context.Context, userID string) (attempts, maxAttempts int, err error)

	// OAuth states (for federated login).
	InsertOAuthState(ctx context.Context, state *OAuthState) error
	GetOAuthState(ctx context.Context, state string) (*OAuthState, error)
	DeleteOAuthState(ctx context.Context, state string) error
	DeleteExpiredOAuthStates(ctx context.Context) error
}

// repository implements Repository using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new user repository with the given database connection.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var userColumns = []string{
	"id", "full_name", "username", "email", "phone", "national_id",
	"password_hash", "role", "verified", "google_id",
	"reset_token_hash", "reset_token_expiry", "last_logout_at",
	"created_at", "updated_at",
}
