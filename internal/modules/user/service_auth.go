package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Register creates a new account. Uniqueness conflicts report the specific
// offending field. Whether the account starts verified is policy: with
// RequireOnRegister the user must confirm a one-time code first, otherwise the
// account is usable immediately.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if !ValidRole(input.Role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.repo.FindConflict(ctx, input.Email, input.Username, input.Phone)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("register: conflict lookup failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	if existing != nil {
		switch {
		case strings.EqualFold(existing.Email, input.Email):
			return nil, ErrEmailExists
		case existing.Username == input.Username:
			return nil, ErrUsernameExists
		default:
			return nil, ErrPhoneExists
		}
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		s.logger.Error("register: failed to hash password", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	var nationalID *string
	if input.NationalID != "" {
		nationalID = &input.NationalID
	}
	phone := input.Phone
	newUser := &User{
		ID:           id.String(),
		FullName:     input.FullName,
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		Phone:        &phone,
		NationalID:   nationalID,
		PasswordHash: hashed,
		Role:         input.Role,
		Verified:     !s.config.Verification.RequireOnRegister,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		var de *DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		s.logger.Error("register: failed to create user", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	token, err := s.tokens.Issue(newUser.ID, newUser.Role)
	if err != nil {
		s.logger.Error("register: failed to issue token", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if s.config.Verification.RequireOnRegister {
		if err := s.SendVerification(ctx, newUser.ID); err != nil && !errors.Is(err, ErrResendTooSoon) {
			// The account exists; the user can re-request a code later.
			s.logger.Error("register: failed to send verification code", "error", err, "user_id", newUser.ID)
		}
	}

	s.logger.Info("user registered successfully", "user_id", newUser.ID, "role", newUser.Role)
	return &AuthResult{User: sanitize(newUser), Token: token}, nil
}

// Login authenticates a user by email and password. Unknown email and wrong
// password produce the same error.
func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login: failed to find user by email", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	// Federated-only accounts have no password to check.
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := verifyPassword(password, u.PasswordHash); err != nil {
		return nil, err
	}

	if s.config.Verification.RequireOnRegister && !u.Verified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		s.logger.Error("login: failed to issue token", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user logged in successfully", "user_id", u.ID)
	return &AuthResult{User: sanitize(u), Token: token}, nil
}

// Logout records an advisory last-logout timestamp. Tokens are stateless, so
// already-issued tokens remain valid until they expire.
func (s *service) Logout(ctx context.Context, userID string) error {
	if err := s.repo.RecordLogout(ctx, userID, time.Now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("logout: failed to record logout", "error", err, "user_id", userID)
		return ErrInternal.WithCause(err)
	}
	s.logger.Info("user logged out", "user_id", userID)
	return nil
}

// GetProfile retrieves a single user by id with credential fields stripped.
func (s *service) GetProfile(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("get profile: lookup failed", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}
	return sanitize(u), nil
}
