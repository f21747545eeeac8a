package user

import (
	"context"
	"log/slog"

	"github.com/medlinkhq/medlink/internal/cache"
	"github.com/medlinkhq/medlink/internal/config"
	"github.com/medlinkhq/medlink/internal/notification"
	"github.com/medlinkhq/medlink/internal/notification/templates"
)

// RegisterInput carries the fields required to create a new account.
type RegisterInput struct {
	FullName   string
	Username   string
	Email      string
	Phone      string
	NationalID string
	Password   string
	Role       Role
}

// AuthResult bundles the sanitized user and the issued bearer token.
type AuthResult struct {
	User  *User
	Token string
}

// Service defines the business logic of the user module: registration, login,
// one-time-code verification, password reset, logout and federated login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*User, error)

	SendVerification(ctx context.Context, userID string) error
	ConfirmVerification(ctx context.Context, userID, code string) (string, error)

	InitiatePasswordReset(ctx context.Context, email string) error
	FinalizePasswordReset(ctx context.Context, token, newPassword string) error

	InitiateOAuthLogin(ctx context.Context, provider string) (redirectURL string, err error)
	HandleOAuthCallback(ctx context.Context, provider, state, code string) (*AuthResult, error)
}

type service struct {
	repo     Repository
	tokens   *TokenIssuer
	notifier notification.Service
	renderer templates.Renderer
	cooldown cache.Cooldown
	logger   *slog.Logger
	config   *config.Config

	// oauthProviders resolves a provider name to its implementation; swappable
	// so tests can drive the callback flow without reaching the provider.
	oauthProviders func(name string) (oAuthProvider, error)
}

// Config holds the dependencies for the user service.
type Config struct {
	Repo     Repository
	Tokens   *TokenIssuer
	Notifier notification.Service
	Renderer templates.Renderer
	Cooldown cache.Cooldown
	Logger   *slog.Logger
	Config   *config.Config
}

// NewService creates a new user service with the given dependencies.
func NewService(cfg *Config) Service {
	s := &service{
		repo:     cfg.Repo,
		tokens:   cfg.Tokens,
		notifier: cfg.Notifier,
		renderer: cfg.Renderer,
		cooldown: cfg.Cooldown,
		logger:   cfg.Logger,
		config:   cfg.Config,
	}
	s.oauthProviders = s.newOAuthProvider
	return s
}

// sanitize returns a copy of the user safe to hand to transport layers: the
// password hash and reset token never leave the service.
func sanitize(u *User) *User {
	cp := *u
	cp.PasswordHash = ""
	cp.ResetTokenHash = nil
	cp.ResetTokenExpiry = nil
	return &cp
}
