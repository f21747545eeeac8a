package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// UpsertVerificationCode issues a code as a single atomic statement: the
// UNIQUE(user_id) constraint plus ON CONFLICT makes "replace any existing code"
// race-free, so at most one code per user is ever valid. Replacing an
// outstanding code is silent and intentional.
func (r *repository) UpsertVerificationCode(ctx context.Context, vc *VerificationCode) error {
	now := time.Now()
	if vc.CreatedAt.IsZero() {
		vc.CreatedAt = now
	}
	if vc.LastSentAt.IsZero() {
		vc.LastSentAt = now
	}

	const query = `
        INSERT INTO verification_codes (user_id, code_hash, attempts, max_attempts, last_sent_at, expires_at, created_at)
        VALUES ($1, $2, 0, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE
        SET code_hash = EXCLUDED.code_hash,
            attempts = 0,
            max_attempts = EXCLUDED.max_attempts,
            last_sent_at = EXCLUDED.last_sent_at,
            expires_at = EXCLUDED.expires_at
    `
	_, err := r.db.Exec(ctx, query,
		vc.UserID, vc.CodeHash, vc.MaxAttempts, vc.LastSentAt, vc.ExpiresAt, vc.CreatedAt)
	return err
}

// ConsumeVerificationCode deletes the row matching user, code hash and an
// unexpired deadline in one statement, making the code single-use even under
// concurrent verify calls. No matching row means invalid or expired.
func (r *repository) ConsumeVerificationCode(ctx context.Context, userID, codeHash string, now time.Time) error {
	query, args, err := r.psql.Delete("verification_codes").
		Where(squirrel.Eq{"user_id": userID, "code_hash": codeHash}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrInvalidOTP
	}
	return nil
}

// IncrementVerificationAttempt bumps the failed-attempt counter for the user's
// active code and reports the new count against the allowed maximum.
func (r *repository) IncrementVerificationAttempt(ctx context.Context, userID string) (int, int, error) {
	const query = `
        UPDATE verification_codes
        SET attempts = attempts + 1
        WHERE user_id = $1
        RETURNING attempts, max_attempts
    `
	var attempts, maxAttempts int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&attempts, &maxAttempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrNotFound.WithCause(err)
		}
		return 0, 0, err
	}
	return attempts, maxAttempts, nil
}
