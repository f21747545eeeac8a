package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medlinkhq/medlink/internal/notification"
	"github.com/medlinkhq/medlink/internal/notification/templates"
)

const resetTokenTTL = time.Hour

// InitiatePasswordReset generates an opaque reset token for the account,
// stores its hash with a one-hour expiry, and emails a reset link. Unknown
// emails return success so the endpoint cannot be used to enumerate accounts.
func (s *service) InitiatePasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		s.logger.Error("password reset: find user failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	token, err := generateSecureToken(32)
	if err != nil {
		s.logger.Error("password reset: generate token failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.SetResetToken(ctx, u.ID, hashToken(token), time.Now().Add(resetTokenTTL)); err != nil {
		s.logger.Error("password reset: store token failed", "error", err, "user_id", u.ID)
		return ErrInternal.WithCause(err)
	}

	data := templates.PasswordResetData{
		FullName: u.FullName,
		ResetURL: fmt.Sprintf("https://medlink.example.com/reset-password/%s", token),
	}
	err = notification.SendTemplate(ctx, s.notifier, s.renderer, templates.PasswordReset,
		u.Email, []notification.Channel{notification.ChannelEmail}, notification.PriorityHigh, data)
	if err != nil {
		s.logger.Error("password reset: notify failed", "error", err, "user_id", u.ID)
	}

	s.logger.Info("password reset initiated", "user_id", u.ID)
	return nil
}

// FinalizePasswordReset validates a reset token and sets the new password.
// Unknown, consumed and expired tokens all yield the same error.
func (s *service) FinalizePasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	u, err := s.repo.FindByResetTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidResetToken
		}
		s.logger.Error("password reset: find by token failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	if u.ResetTokenExpiry == nil || time.Now().After(*u.ResetTokenExpiry) {
		return ErrInvalidResetToken
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		s.logger.Error("password reset: hash new password failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	// UpdatePassword also clears the token pair, making the token single-use.
	if err := s.repo.UpdatePassword(ctx, u.ID, hashed); err != nil {
		s.logger.Error("password reset: update password failed", "error", err, "user_id", u.ID)
		return ErrInternal.WithCause(err)
	}

	s.logger.Info("password reset completed", "user_id", u.ID)
	return nil
}
