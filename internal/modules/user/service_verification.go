package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/medlinkhq/medlink/internal/notification"
	"github.com/medlinkhq/medlink/internal/notification/templates"
)

const verificationCodeDigits = 6

// SendVerification issues a fresh 6-digit code for the user and emails it.
// Issuing replaces any outstanding code (silently, by design) and is throttled
// by a Redis-backed cooldown so a user cannot be flooded with codes.
func (s *service) SendVerification(ctx context.Context, userID string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("send verification: find user failed", "error", err)
		return ErrInternal.WithCause(err)
	}
	if u.Verified {
		// Already verified, nothing to send; treat as success.
		return nil
	}

	cooldownWindow := time.Duration(s.config.Verification.ResendCooldownSeconds) * time.Second
	ok, err := s.cooldown.Acquire(ctx, "otp-send", u.ID, cooldownWindow)
	if err != nil {
		// Losing the throttle is preferable to blocking verification outright.
		s.logger.Error("send verification: cooldown check failed", "error", err, "user_id", u.ID)
	} else if !ok {
		return ErrResendTooSoon
	}

	code, err := generateNumericCode(verificationCodeDigits)
	if err != nil {
		s.logger.Error("send verification: generate code failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	now := time.Now()
	vc := &VerificationCode{
		UserID:      u.ID,
		CodeHash:    hashToken(code),
		MaxAttempts: s.config.Verification.MaxAttempts,
		LastSentAt:  now,
		ExpiresAt:   now.Add(time.Duration(s.config.Verification.TTLMinutes) * time.Minute),
	}
	if err := s.repo.UpsertVerificationCode(ctx, vc); err != nil {
		s.logger.Error("send verification: upsert code failed", "error", err, "user_id", u.ID)
		return ErrInternal.WithCause(err)
	}

	// The plaintext code goes out of band only; it is never echoed in the API
	// response.
	data := templates.VerifyEmailData{
		FullName:   u.FullName,
		Code:       code,
		TTLMinutes: s.config.Verification.TTLMinutes,
	}
	err = notification.SendTemplate(ctx, s.notifier, s.renderer, templates.VerifyEmail,
		u.Email, []notification.Channel{notification.ChannelEmail}, notification.PriorityHigh, data)
	if err != nil {
		s.logger.Error("send verification: notify failed", "error", err, "user_id", u.ID)
	}

	s.logger.Info("verification code issued", "user_id", u.ID)
	return nil
}

// ConfirmVerification checks a candidate code for the user. On a match the
// code is consumed (single-use), the user's verified flag flips to true, and a
// fresh token is issued.
func (s *service) ConfirmVerification(ctx context.Context, userID, code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) != verificationCodeDigits {
		return "", ErrInvalidOTP
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		s.logger.Error("confirm verification: find user failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	err = s.repo.ConsumeVerificationCode(ctx, u.ID, hashToken(code), time.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			attempts, max, incErr := s.repo.IncrementVerificationAttempt(ctx, u.ID)
			if incErr != nil && !errors.Is(incErr, ErrNotFound) {
				s.logger.Error("confirm verification: increment attempts failed", "error", incErr)
				return "", ErrInternal.WithCause(incErr)
			}
			if incErr == nil && attempts >= max {
				return "", ErrTooManyAttempts
			}
			return "", ErrInvalidOTP
		}
		s.logger.Error("confirm verification: consume failed", "error", err, "user_id", u.ID)
		return "", ErrInternal.WithCause(err)
	}

	if !u.Verified {
		if err := s.repo.MarkVerified(ctx, u.ID); err != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Error("confirm verification: mark verified failed", "error", err, "user_id", u.ID)
			return "", ErrInternal.WithCause(err)
		}
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		s.logger.Error("confirm verification: issue token failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	s.logger.Info("user verified successfully", "user_id", u.ID)
	return token, nil
}
